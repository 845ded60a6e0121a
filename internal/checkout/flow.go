package checkout

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/nutrihaven/storefront/internal/cart"
	"github.com/nutrihaven/storefront/internal/kv"
	"github.com/nutrihaven/storefront/internal/order"
	"github.com/nutrihaven/storefront/internal/pricing"
)

// StorageKey is the key-value entry holding the in-progress checkout.
const StorageKey = "checkoutState"

// Step identifies a stage of the checkout wizard. The wizard only ever moves
// one step at a time, forward on valid input and backward on request.
type Step string

const (
	StepShipping  Step = "shipping"
	StepPayment   Step = "payment"
	StepReview    Step = "review"
	StepSubmitted Step = "submitted"
)

var (
	// ErrNoCheckout indicates no checkout is in progress.
	ErrNoCheckout = errors.New("no checkout in progress")
	// ErrEmptyCart guards against checking out an empty cart.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrAuthRequired guards the wizard behind the signed-in session.
	ErrAuthRequired = errors.New("authentication required")
	// ErrWrongStep is returned when an operation does not apply to the
	// wizard's current step.
	ErrWrongStep = errors.New("operation not valid for current checkout step")
)

// ShippingInput is the first wizard form. Notes and the save-info flag are
// optional and carried through to the review step untouched.
type ShippingInput struct {
	FirstName string `json:"firstName" validate:"required,min=2"`
	LastName  string `json:"lastName" validate:"required,min=2"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"required,min=10"`
	Address   string `json:"address" validate:"required,min=5"`
	City      string `json:"city" validate:"required,min=2"`
	State     string `json:"state" validate:"required,min=2"`
	Pincode   string `json:"pincode" validate:"required,min=6"`
	Notes     string `json:"notes,omitempty" validate:"omitempty,max=500"`
	SaveInfo  bool   `json:"saveInfo,omitempty"`
}

// PaymentInput is the second wizard form. Card details are required for the
// card method and a UPI id for upi; cash on delivery needs nothing further.
// Formats are checked loosely, there is no checksum verification.
type PaymentInput struct {
	PaymentMethod string `json:"paymentMethod" validate:"required,oneof=card upi cod"`
	CardNumber    string `json:"cardNumber,omitempty" validate:"required_if=PaymentMethod card,omitempty,numeric,min=12,max=19"`
	ExpiryDate    string `json:"expiryDate,omitempty" validate:"required_if=PaymentMethod card,omitempty,datetime=01/06"`
	CVV           string `json:"cvv,omitempty" validate:"required_if=PaymentMethod card,omitempty,numeric,min=3,max=4"`
	NameOnCard    string `json:"nameOnCard,omitempty" validate:"required_if=PaymentMethod card,omitempty,min=2"`
	UpiID         string `json:"upiId,omitempty" validate:"required_if=PaymentMethod upi,omitempty,min=3,contains=@"`
}

// Form accumulates the wizard's fields across steps. Going back never clears
// what was already entered.
type Form struct {
	ShippingInput
	PaymentInput
}

// State is the persisted wizard snapshot.
type State struct {
	Step    Step   `json:"step"`
	Form    Form   `json:"form"`
	OrderID string `json:"orderId,omitempty"`
}

// NewValidator builds the wizard's form validator. Field errors are reported
// under the json name of the offending field so they map straight onto the
// form inputs.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// SessionChecker reports whether a customer is signed in.
type SessionChecker interface {
	LoggedIn(ctx context.Context) (bool, error)
}

// Submitter serialises order submission. The redis locker satisfies this.
type Submitter interface {
	WithLock(ctx context.Context, key string, ttl time.Duration, fn func(context.Context) error) error
}

// Flow drives the checkout wizard. All transitions persist the snapshot
// before returning so a reload lands on the same step.
type Flow struct {
	KV       kv.Store
	Pub      kv.Publisher
	Cart     *cart.Store
	Orders   *order.Store
	Session  SessionChecker
	Rules    pricing.Rules
	Validate *validator.Validate
	Locker   Submitter
	Logger   zerolog.Logger
	Now      func() time.Time
	NewID    func() string
}

// Begin starts a fresh checkout at the shipping step. It refuses to start
// for an empty cart or a signed-out session.
func (f *Flow) Begin(ctx context.Context) (State, error) {
	if err := f.guard(ctx); err != nil {
		return State{}, err
	}
	st := State{Step: StepShipping}
	if err := f.persist(ctx, st); err != nil {
		return State{}, err
	}
	return st, nil
}

// Current returns the persisted wizard snapshot.
func (f *Flow) Current(ctx context.Context) (State, error) {
	var st State
	ok, err := kv.GetJSON(ctx, f.KV, StorageKey, &st)
	if err != nil {
		var decodeErr *kv.DecodeError
		if errors.As(err, &decodeErr) {
			f.Logger.Warn().Err(err).Str("key", StorageKey).Msg("discarding corrupt checkout state")
			return State{}, ErrNoCheckout
		}
		return State{}, fmt.Errorf("checkout: load: %w", err)
	}
	if !ok || st.Step == "" {
		return State{}, ErrNoCheckout
	}
	return st, nil
}

// SubmitShipping validates the shipping form and advances to payment.
func (f *Flow) SubmitShipping(ctx context.Context, in ShippingInput) (State, error) {
	st, err := f.Current(ctx)
	if err != nil {
		return State{}, err
	}
	if st.Step != StepShipping {
		return st, ErrWrongStep
	}
	if err := f.validate(in); err != nil {
		return st, err
	}
	st.Form.ShippingInput = trimShipping(in)
	st.Step = StepPayment
	if err := f.persist(ctx, st); err != nil {
		return State{}, err
	}
	return st, nil
}

// SubmitPayment validates the payment form and advances to review.
func (f *Flow) SubmitPayment(ctx context.Context, in PaymentInput) (State, error) {
	st, err := f.Current(ctx)
	if err != nil {
		return State{}, err
	}
	if st.Step != StepPayment {
		return st, ErrWrongStep
	}
	in = normalizePayment(in)
	if err := f.validate(in); err != nil {
		return st, err
	}
	st.Form.PaymentInput = in
	st.Step = StepReview
	if err := f.persist(ctx, st); err != nil {
		return State{}, err
	}
	return st, nil
}

// Back moves one step toward shipping. Entered fields are kept. Going back
// from the first step, or after submission, is not possible.
func (f *Flow) Back(ctx context.Context) (State, error) {
	st, err := f.Current(ctx)
	if err != nil {
		return State{}, err
	}
	switch st.Step {
	case StepPayment:
		st.Step = StepShipping
	case StepReview:
		st.Step = StepPayment
	default:
		return st, ErrWrongStep
	}
	if err := f.persist(ctx, st); err != nil {
		return State{}, err
	}
	return st, nil
}

// Submit places the order from the review step: it prices the cart, records
// the order, clears the cart and marks the wizard submitted. A redis lock
// keeps a double-tap from placing two orders.
func (f *Flow) Submit(ctx context.Context) (State, error) {
	run := func(ctx context.Context) (State, error) {
		st, err := f.Current(ctx)
		if err != nil {
			return State{}, err
		}
		if st.Step != StepReview {
			return st, ErrWrongStep
		}
		if err := f.guard(ctx); err != nil {
			return st, err
		}

		totals, err := pricing.Compute(f.Cart.PricingItems(), f.Cart.Promo(), f.Rules)
		if err != nil && !errors.Is(err, pricing.ErrInvalidPromoCode) {
			return st, err
		}

		o := order.Order{
			ID:      f.newID(),
			Date:    f.now().Format(time.RFC3339),
			Status:  order.StatusProcessing,
			Items:   f.Cart.List(),
			Pricing: totals.Rounded(),
			Total:   pricing.Round2(totals.Total),
			Customer: order.Customer{
				Name:    strings.TrimSpace(st.Form.FirstName + " " + st.Form.LastName),
				Email:   st.Form.Email,
				Phone:   st.Form.Phone,
				Address: st.Form.Address,
				City:    st.Form.City,
				State:   st.Form.State,
				Pincode: st.Form.Pincode,
			},
			PaymentMethod: st.Form.PaymentMethod,
		}
		if err := f.Orders.Append(ctx, o); err != nil {
			return st, err
		}
		if err := f.Cart.Clear(ctx); err != nil {
			return st, err
		}
		st.Step = StepSubmitted
		st.OrderID = o.ID
		if err := f.persist(ctx, st); err != nil {
			return st, err
		}
		return st, nil
	}

	if f.Locker == nil {
		return run(ctx)
	}
	var st State
	err := f.Locker.WithLock(ctx, "lock:checkout:submit", 10*time.Second, func(ctx context.Context) error {
		var runErr error
		st, runErr = run(ctx)
		return runErr
	})
	return st, err
}

// Cancel abandons the in-progress checkout.
func (f *Flow) Cancel(ctx context.Context) error {
	if err := f.KV.Del(ctx, StorageKey); err != nil && !errors.Is(err, kv.ErrNotFound) {
		return fmt.Errorf("checkout: cancel: %w", err)
	}
	f.publish(ctx)
	return nil
}

func (f *Flow) guard(ctx context.Context) error {
	if f.Session != nil {
		in, err := f.Session.LoggedIn(ctx)
		if err != nil {
			return err
		}
		if !in {
			return ErrAuthRequired
		}
	}
	if f.Cart == nil || f.Cart.Count() == 0 {
		return ErrEmptyCart
	}
	return nil
}

func (f *Flow) validate(v any) error {
	if f.Validate == nil {
		return nil
	}
	err := f.Validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		details := make(map[string]any, len(fieldErrs))
		for _, fe := range fieldErrs {
			details[fieldName(fe)] = fieldMessage(fe)
		}
		return &ValidationError{Fields: details}
	}
	return err
}

// ValidationError carries per-field messages for the form being submitted.
type ValidationError struct {
	Fields map[string]any
}

func (e *ValidationError) Error() string { return "validation failed" }

func fieldName(fe validator.FieldError) string {
	name := fe.Field()
	if name == "" {
		return "field"
	}
	return strings.ToLower(name[:1]) + name[1:]
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_if":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "numeric":
		return "must contain only digits"
	case "datetime":
		return "must be in MM/YY format"
	case "contains":
		return "must include " + fe.Param()
	default:
		return "is invalid"
	}
}

func trimShipping(in ShippingInput) ShippingInput {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Address = strings.TrimSpace(in.Address)
	in.City = strings.TrimSpace(in.City)
	in.State = strings.TrimSpace(in.State)
	in.Pincode = strings.TrimSpace(in.Pincode)
	in.Notes = strings.TrimSpace(in.Notes)
	return in
}

// normalizePayment trims the form and collapses the spacing people type into
// card numbers before validation sees them.
func normalizePayment(in PaymentInput) PaymentInput {
	in.PaymentMethod = strings.TrimSpace(in.PaymentMethod)
	in.CardNumber = strings.ReplaceAll(strings.TrimSpace(in.CardNumber), " ", "")
	in.ExpiryDate = strings.TrimSpace(in.ExpiryDate)
	in.CVV = strings.TrimSpace(in.CVV)
	in.NameOnCard = strings.TrimSpace(in.NameOnCard)
	in.UpiID = strings.TrimSpace(in.UpiID)
	return in
}

func (f *Flow) persist(ctx context.Context, st State) error {
	if err := kv.SetJSON(ctx, f.KV, StorageKey, st); err != nil {
		return fmt.Errorf("checkout: persist: %w", err)
	}
	f.publish(ctx)
	return nil
}

func (f *Flow) publish(ctx context.Context) {
	if f.Pub == nil {
		return
	}
	if err := f.Pub.PublishChange(ctx, StorageKey); err != nil {
		f.Logger.Warn().Err(err).Msg("publish checkout change")
	}
}

func (f *Flow) now() time.Time {
	if f.Now != nil {
		return f.Now()
	}
	return time.Now()
}

func (f *Flow) newID() string {
	if f.NewID != nil {
		return f.NewID()
	}
	return order.NewID()
}
