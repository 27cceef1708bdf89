package appointment

import (
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/service-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/service-scheduler/internal/httperr"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
)

// Patch lists every field that may change outside a transition. Nil means
// untouched.
type Patch struct {
	Notes         *string
	Price         *decimal.Decimal
	Discount      *decimal.Decimal
	Paid          *bool
	PaymentMethod *string
	Rating        *int
}

var paymentMethods = map[string]bool{
	"cash":        true,
	"pix":         true,
	"credit_card": true,
	"debit_card":  true,
	"other":       true,
}

func (p Patch) Empty() bool {
	return p.Notes == nil && p.Price == nil && p.Discount == nil &&
		p.Paid == nil && p.PaymentMethod == nil && p.Rating == nil
}

func (p Patch) touchesMoney() bool {
	return p.Price != nil || p.Discount != nil || p.Paid != nil || p.PaymentMethod != nil
}

// Validate checks the patch against the appointment and reports every
// problem at once.
func (p Patch) Validate(ap *models.Appointment) error {
	var reasons []string

	if p.Empty() {
		return httperr.Validation("empty_patch", "nenhum campo para atualizar")
	}

	if p.Notes != nil && utf8.RuneCountInString(*p.Notes) > 255 {
		reasons = append(reasons, "observações com mais de 255 caracteres")
	}
	if p.Price != nil && p.Price.IsNegative() {
		reasons = append(reasons, "preço negativo")
	}
	if p.Discount != nil && p.Discount.IsNegative() {
		reasons = append(reasons, "desconto negativo")
	}
	if p.PaymentMethod != nil && *p.PaymentMethod != "" && !paymentMethods[*p.PaymentMethod] {
		reasons = append(reasons, "forma de pagamento desconhecida")
	}
	if p.Rating != nil {
		if *p.Rating < 1 || *p.Rating > 5 {
			reasons = append(reasons, "avaliação deve estar entre 1 e 5")
		}
		if ap.Status != booking.StatusCompleted {
			reasons = append(reasons, "só é possível avaliar atendimentos concluídos")
		}
	}
	if p.touchesMoney() && !ap.Status.IsActive() {
		reasons = append(reasons, "agendamento cancelado não aceita alterações financeiras")
	}

	if len(reasons) > 0 {
		return httperr.Validation("invalid_patch", reasons...)
	}
	return nil
}

// Apply writes the patch and recomputes the final price.
func (p Patch) Apply(ap *models.Appointment) {
	if p.Notes != nil {
		ap.Notes = *p.Notes
	}
	if p.Price != nil {
		ap.Price = *p.Price
	}
	if p.Discount != nil {
		ap.Discount = *p.Discount
	}
	if p.Paid != nil {
		ap.Paid = *p.Paid
	}
	if p.PaymentMethod != nil {
		ap.PaymentMethod = *p.PaymentMethod
	}
	if p.Rating != nil {
		r := *p.Rating
		ap.Rating = &r
	}

	ap.FinalPrice = decimal.Max(ap.Price.Sub(ap.Discount), decimal.Zero)
}

// Fields names what the patch touched, for the audit trail.
func (p Patch) Fields() []string {
	var out []string
	if p.Notes != nil {
		out = append(out, "notes")
	}
	if p.Price != nil {
		out = append(out, "price")
	}
	if p.Discount != nil {
		out = append(out, "discount")
	}
	if p.Paid != nil {
		out = append(out, "paid")
	}
	if p.PaymentMethod != nil {
		out = append(out, "payment_method")
	}
	if p.Rating != nil {
		out = append(out, "rating")
	}
	return out
}
