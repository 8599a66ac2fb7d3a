package pco

import (
	"context"
	"net/http"
	"net/url"
)

// NewDonation is the input for CreateDonation.
type NewDonation struct {
	AmountCents     int    `json:"amount_cents"`
	FundID          string `json:"fund_id"`
	PersonID        string `json:"person_id"`
	PaymentMethodID string `json:"payment_method_id"`
	Note            string `json:"note,omitempty"`
}

type donationWrite struct {
	AmountCents int    `json:"amount_cents"`
	Note        string `json:"note,omitempty"`
}

// Donations lists donations created between start and end, inclusive.
func (c *Client) Donations(ctx context.Context, start, end string) ([]Donation, error) {
	var params url.Values
	if start != "" || end != "" {
		params = url.Values{"where[created_at]": {start + ".." + end}}
	}
	return getList[DonationAttributes](ctx, c, "donations", "/giving/v2/donations", params)
}

// CreateDonation records a donation.
func (c *Client) CreateDonation(ctx context.Context, in NewDonation) (Donation, error) {
	switch {
	case in.PersonID == "":
		return Donation{}, missingID("person id")
	case in.FundID == "":
		return Donation{}, missingID("fund id")
	case in.PaymentMethodID == "":
		return Donation{}, missingID("payment method id")
	}
	return write[DonationAttributes](ctx, c, "donations", http.MethodPost, "/giving/v2/donations", writeResource{
		Type:       TypeDonation,
		Attributes: donationWrite{AmountCents: in.AmountCents, Note: in.Note},
		Relationships: Relationships{
			"person":         related(TypePerson, in.PersonID),
			"payment_method": related(TypePayment, in.PaymentMethodID),
			"fund":           related(TypeFund, in.FundID),
		},
	})
}
