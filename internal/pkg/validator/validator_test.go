package validator

import "testing"

type sample struct {
	Email  string `json:"email" validate:"required,email"`
	Role   string `json:"role" validate:"omitempty,role"`
	Status string `json:"status" validate:"omitempty,order_status"`
	Target string `json:"link_or_target" validate:"required,notblank"`
}

func TestValidateUsesJSONFieldNames(t *testing.T) {
	errs := Validate(&sample{Email: "nope", Role: "model", Status: "shipped", Target: "   "})
	for _, field := range []string{"email", "role", "status", "link_or_target"} {
		if _, ok := errs[field]; !ok {
			t.Fatalf("expected error for %s, got %v", field, errs)
		}
	}
}

func TestValidatePasses(t *testing.T) {
	errs := Validate(&sample{Email: "a@b.co", Role: "admin", Status: "pending", Target: "https://x.y/p"})
	if errs != nil {
		t.Fatalf("expected no errors, got %v", errs)
	}
}
