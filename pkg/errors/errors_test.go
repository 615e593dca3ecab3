package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stripe/stripe-go/v84"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code      Code
		status    int
		publicMsg string
		retryable bool
	}{
		{code: CodeMissingSignature, status: http.StatusBadRequest, publicMsg: "missing stripe-signature header"},
		{code: CodeInvalidSignature, status: http.StatusBadRequest, publicMsg: "invalid webhook signature"},
		{code: CodeNoCustomer, status: http.StatusBadRequest, publicMsg: "no customer found"},
		{code: CodeNoSubscription, status: http.StatusBadRequest, publicMsg: "no subscription found"},
		{code: CodeUnauthorized, status: http.StatusBadRequest, publicMsg: "unauthorized"},
		{code: CodeValidation, status: http.StatusBadRequest, publicMsg: "validation failed"},
		{code: CodeDependency, status: http.StatusBadRequest, publicMsg: "downstream failure", retryable: true},
		{code: CodeInternal, status: http.StatusInternalServerError, publicMsg: "internal server error", retryable: true},
	}

	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		if meta.HTTPStatus != tt.status {
			t.Fatalf("code %s expected status %d got %d", tt.code, tt.status, meta.HTTPStatus)
		}
		if meta.PublicMessage != tt.publicMsg {
			t.Fatalf("code %s expected public message %q got %q", tt.code, tt.publicMsg, meta.PublicMessage)
		}
		if meta.Retryable != tt.retryable {
			t.Fatalf("code %s expected retryable %v got %v", tt.code, tt.retryable, meta.Retryable)
		}
	}
}

func TestMetadataForUnknownCodeDefaultsToInternal(t *testing.T) {
	meta := MetadataFor("SOMETHING_UNKNOWN")
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal status, got %d", meta.HTTPStatus)
	}
}

func TestErrorConstructors(t *testing.T) {
	base := New(CodeValidation, "missing foo")
	if base.Code() != CodeValidation {
		t.Fatalf("expected validation code, got %s", base.Code())
	}
	if base.Message() != "missing foo" {
		t.Fatalf("unexpected message %q", base.Message())
	}
	if base.Details() != nil {
		t.Fatalf("details should be nil by default")
	}
	base.WithDetails(map[string]any{"field": "foo"})
	if base.Details() == nil {
		t.Fatalf("details should be preserved")
	}

	cause := stdErrors.New("boom")
	wrapped := Wrap(CodeDependency, cause, "insert transaction")
	if !stdErrors.Is(wrapped, cause) {
		t.Fatalf("Wrap did not preserve cause")
	}
	if wrapped.Code() != CodeDependency {
		t.Fatalf("unexpected code %s", wrapped.Code())
	}
}

func TestPublicMessage(t *testing.T) {
	if got := Wrap(CodeDependency, stdErrors.New("conn refused"), "load customer").PublicMessage(); got != "load customer: conn refused" {
		t.Fatalf("unexpected public message %q", got)
	}
	if got := New(CodeNoCustomer, "").PublicMessage(); got != "no customer found" {
		t.Fatalf("expected metadata fallback, got %q", got)
	}
	if got := Wrap(CodeInternal, stdErrors.New("nil pointer"), "panic").PublicMessage(); got != "internal server error" {
		t.Fatalf("internal errors must not leak causes, got %q", got)
	}
}

func TestAsAndIsCode(t *testing.T) {
	err := fmt.Errorf("outer: %w", New(CodeNoSubscription, "no subscription found"))
	if got := As(err); got == nil || got.Code() != CodeNoSubscription {
		t.Fatalf("As failed to return typed error")
	}
	if !IsCode(err, CodeNoSubscription) {
		t.Fatalf("expected IsCode to match")
	}
	if IsCode(err, CodeNoCustomer) {
		t.Fatalf("expected IsCode mismatch")
	}
	if As(nil) != nil {
		t.Fatalf("As(nil) should return nil")
	}
}

func TestDumpExtractsPostgresDetails(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:           "23505",
		ConstraintName: "transactions_stripe_invoice_id_key",
		TableName:      "transactions",
		Message:        "duplicate key value violates unique constraint",
	}
	err := Wrap(CodeDependency, pgErr, "insert transaction")

	dump := Dump(err)
	if dump.Code != CodeDependency {
		t.Fatalf("unexpected code %s", dump.Code)
	}
	if dump.PG == nil || dump.PG.Code != "23505" || dump.PG.Table != "transactions" {
		t.Fatalf("unexpected pg fields %+v", dump)
	}
	if len(dump.Chain) != 2 {
		t.Fatalf("expected two chain entries, got %v", dump.Chain)
	}
}

func TestDumpExtractsStripeDetails(t *testing.T) {
	stripeErr := &stripe.Error{
		Type:           stripe.ErrorTypeInvalidRequest,
		Code:           stripe.ErrorCodeResourceMissing,
		Param:          "items[0][price]",
		RequestID:      "req_123",
		HTTPStatusCode: 400,
		Msg:            "No such price",
	}
	dump := Dump(Wrap(CodeDependency, stripeErr, "update stripe subscription"))
	if dump.Stripe == nil || dump.Stripe.RequestID != "req_123" || dump.Stripe.Param != "items[0][price]" {
		t.Fatalf("unexpected stripe detail %+v", dump.Stripe)
	}
	if dump.PG != nil {
		t.Fatalf("expected no pg detail, got %+v", dump.PG)
	}

	fields := dump.Fields()
	if _, ok := fields["stripe"]; !ok {
		t.Fatalf("expected stripe field, got %v", fields)
	}
	if _, ok := fields["pg"]; ok {
		t.Fatalf("unexpected pg field in %v", fields)
	}
}
