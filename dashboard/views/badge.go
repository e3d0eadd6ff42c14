package views

import (
	"strings"

	"github.com/networkteam/browsertest/report"
)

type BadgeVariant string

const (
	BadgeVariantSecondary BadgeVariant = "secondary"
	BadgeVariantSuccess   BadgeVariant = "success"
	BadgeVariantWarning   BadgeVariant = "warning"
	BadgeVariantError     BadgeVariant = "error"
)

type BadgeProps struct {
	Variant BadgeVariant
	Class   string
}

func badgeClasses(props BadgeProps) string {
	classes := []string{"badge"}

	switch props.Variant {
	case BadgeVariantSuccess:
		classes = append(classes, "badge-success")
	case BadgeVariantWarning:
		classes = append(classes, "badge-warning")
	case BadgeVariantError:
		classes = append(classes, "badge-error")
	default:
		classes = append(classes, "badge-secondary")
	}

	if props.Class != "" {
		classes = append(classes, props.Class)
	}

	return strings.Join(classes, " ")
}

func statusVariant(status report.Status) BadgeVariant {
	switch status {
	case report.StatusPassed:
		return BadgeVariantSuccess
	case report.StatusFailed:
		return BadgeVariantError
	case report.StatusErrored:
		return BadgeVariantWarning
	default:
		return BadgeVariantSecondary
	}
}

// outcomeLabel names the status, with the phase for errors outside the call phase.
func outcomeLabel(outcome report.Outcome) string {
	label := string(outcome.Status)
	if outcome.Phase != "" && outcome.Phase != report.PhaseCall {
		label += " in " + string(outcome.Phase)
	}
	return label
}
