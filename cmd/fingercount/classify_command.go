package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ayusman/fingercount/internal/detector"
	"github.com/ayusman/fingercount/internal/fingers"
)

type classifiedHand struct {
	Index      int    `json:"index"`
	Handedness string `json:"handedness,omitempty"`
	Status     string `json:"status"`
	Fingers    []int  `json:"fingers,omitempty"`
	Count      int    `json:"count"`
	Error      string `json:"error,omitempty"`
}

type classifyReport struct {
	Total   int              `json:"total"`
	Hands   []classifiedHand `json:"hands"`
	Skipped int              `json:"skipped"`
	Dropped int              `json:"dropped"`
}

const (
	statusCounted   = "counted"
	statusMalformed = "malformed"
	statusIgnored   = "ignored"
)

func newClassifyCommand(ctx *commandContext) *cobra.Command {
	var maxHands int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "classify [file]",
		Short: "Count fingers in a recorded landmark reply",
		Long: "Reads one landmark service reply ({\"hands\": [...]}) from a file, or from stdin when the\n" +
			"file is omitted or \"-\", and prints the per-hand finger states and the total.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			limit := maxHands
			if !cmd.Flags().Changed("max-hands") {
				cfg, err := ctx.ensureConfig(cmd)
				if err != nil {
					return err
				}
				limit = cfg.Detector.MaxHands
			}

			hands, err := readHands(cmd, args)
			if err != nil {
				return err
			}

			report := classifyHands(hands, limit)
			if jsonOutput {
				return writeJSON(cmd, report)
			}

			out := cmd.OutOrStdout()
			if len(report.Hands) > 0 {
				fmt.Fprintln(out, renderReport(report))
			} else {
				fmt.Fprintln(out, "No hands detected")
			}
			fmt.Fprintf(out, "Total: %d\n", report.Total)
			return nil
		},
	}

	cmd.Flags().IntVar(&maxHands, "max-hands", 0, "Hand limit (defaults to detector.max_hands)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON instead of a table")
	return cmd
}

func readHands(cmd *cobra.Command, args []string) ([]detector.Hand, error) {
	var r io.Reader = cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return nil, fmt.Errorf("open landmarks: %w", err)
		}
		defer f.Close()
		r = f
	}
	return detector.DecodeHands(r)
}

// classifyHands reports every detection. The total always comes from
// fingers.Aggregate so it matches what the live pipeline would show.
func classifyHands(hands []detector.Hand, maxHands int) classifyReport {
	result := fingers.Aggregate(hands, maxHands)
	report := classifyReport{
		Total:   result.Total,
		Hands:   make([]classifiedHand, 0, len(hands)),
		Skipped: len(result.Skipped),
		Dropped: result.Dropped,
	}

	for i, hand := range hands {
		row := classifiedHand{Index: i, Handedness: hand.Handedness}
		if maxHands > 0 && i >= maxHands {
			row.Status = statusIgnored
			report.Hands = append(report.Hands, row)
			continue
		}

		v, err := fingers.Classify(hand)
		if err != nil {
			row.Status = statusMalformed
			var malformed *fingers.MalformedHandError
			if errors.As(err, &malformed) {
				malformed.Index = i
			}
			row.Error = err.Error()
			report.Hands = append(report.Hands, row)
			continue
		}

		bits := v.Bits()
		row.Status = statusCounted
		row.Fingers = bits[:]
		row.Count = v.Count()
		report.Hands = append(report.Hands, row)
	}
	return report
}

func renderReport(report classifyReport) string {
	headers := []string{"Hand", "Side", "Thumb", "Index", "Middle", "Ring", "Pinky", "Count"}
	aligns := []columnAlignment{alignRight, alignLeft, alignCenter, alignCenter, alignCenter, alignCenter, alignCenter, alignRight}

	rows := make([][]string, 0, len(report.Hands))
	for _, h := range report.Hands {
		row := []string{strconv.Itoa(h.Index), h.Handedness}
		switch h.Status {
		case statusCounted:
			for _, bit := range h.Fingers {
				row = append(row, fingerMark(bit))
			}
			row = append(row, strconv.Itoa(h.Count))
		default:
			row = append(row, "", "", "", "", "", h.Status)
		}
		rows = append(rows, row)
	}
	return renderTable(headers, rows, aligns)
}

func fingerMark(bit int) string {
	if bit == 1 {
		return "up"
	}
	return "-"
}
