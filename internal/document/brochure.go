package document

import (
	"fmt"

	"github.com/acadops/programme-finance/internal/layout"
	"github.com/acadops/programme-finance/internal/models"
)

// buildBrochure renders the participant-facing brochure: programme details
// and fee structure on the left, committee and contact details on the right.
func (r *Renderer) buildBrochure(e *layout.Engine, event *models.Event) error {
	r.letterhead(e, event.Title)

	period := fmt.Sprintf("%s to %s", formatDate(event.StartDate), formatDate(event.EndDate))
	e.TextLine(period, layout.TextStyle{FontSize: headingSize, Align: "C"})
	if event.Venue != "" {
		e.TextLine(event.Venue, layout.TextStyle{FontSize: bodySize, Align: "C"})
	}
	e.Spacer(12)

	left := []layout.Block{
		{Text: "About the Programme", Style: layout.TextStyle{FontSize: headingSize, Bold: true}, Spacing: 4},
	}
	for _, dept := range event.OrganizingDepartments {
		left = append(left, layout.Block{
			Text:  "Organized by " + dept,
			Style: layout.TextStyle{FontSize: bodySize},
		})
	}
	if event.Mode != "" {
		left = append(left, layout.Block{
			Text:    "Mode of delivery: " + event.Mode,
			Style:   layout.TextStyle{FontSize: bodySize},
			Spacing: 8,
		})
	}
	if event.RegistrationFees != nil {
		left = append(left,
			layout.Block{Text: "Registration", Style: layout.TextStyle{FontSize: headingSize, Bold: true}, Spacing: 4},
			layout.Block{
				Text:  fmt.Sprintf("Fee: Rs. %s per participant", money(event.RegistrationFees.PerParticipantAmount)),
				Style: layout.TextStyle{FontSize: bodySize},
			},
			layout.Block{
				Text:  fmt.Sprintf("GST: %.1f%% extra as applicable", event.RegistrationFees.GSTPercentage),
				Style: layout.TextStyle{FontSize: bodySize},
			},
			layout.Block{
				Text:  fmt.Sprintf("Seats: %d", event.RegistrationFees.ExpectedParticipants),
				Style: layout.TextStyle{FontSize: bodySize},
			},
		)
	}

	right := []layout.Block{
		{Text: "Programme Committee", Style: layout.TextStyle{FontSize: headingSize, Bold: true}, Spacing: 4},
	}
	right = append(right, rosterBlocks(event.Coordinators)...)
	for _, c := range event.Coordinators {
		if c.Email == "" && c.Phone == "" {
			continue
		}
		contact := c.Email
		if c.Phone != "" {
			if contact != "" {
				contact += " / "
			}
			contact += c.Phone
		}
		right = append(right, layout.Block{
			Text:  fmt.Sprintf("Contact: %s (%s)", contact, c.Name),
			Style: layout.TextStyle{FontSize: bodySize},
		})
	}

	e.TwoColumn(left, right, 12)
	return nil
}
