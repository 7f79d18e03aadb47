package validate_test

import (
	"testing"

	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/pkg/validate"
)

type registerInput struct {
	Username             string `json:"username"              validate:"required,alpha_dash,min=2,max=50"`
	Email                string `json:"email"                 validate:"required,email"`
	Password             string `json:"password"              validate:"required,min=8"`
	PasswordConfirmation string `json:"password_confirmation" validate:"confirmed"`
	Website              string `json:"website"               validate:"nullable,url"`
}

type productInput struct {
	Name              string `json:"name"               validate:"required,min=2,max=120"`
	OriginalPrice     string `json:"original_price"     validate:"required,price"`
	AvailableQuantity int    `json:"available_quantity" validate:"required,gte=1"`
	Category          string `json:"category"           validate:"required"`
}

func TestValidRegisterInput(t *testing.T) {
	errs := validate.Struct(registerInput{
		Username:             "shopper_01",
		Email:                "shopper@example.com",
		Password:             "secret123",
		PasswordConfirmation: "secret123",
		Website:              "", // nullable — allowed to be empty
	})
	if validate.HasErrors(errs) {
		t.Errorf("expected no errors, got: %v", errs)
	}
}

func TestRequiredFails(t *testing.T) {
	errs := validate.Struct(registerInput{})
	if !validate.HasErrors(errs) {
		t.Error("expected required errors")
	}
	if _, ok := errs["username"]; !ok {
		t.Error("expected username to be required")
	}
	if _, ok := errs["email"]; !ok {
		t.Error("expected email to be required")
	}
}

func TestEmailRule(t *testing.T) {
	type in struct {
		Email string `json:"email" validate:"required,email"`
	}
	errs := validate.Struct(in{Email: "not-an-email"})
	if _, ok := errs["email"]; !ok {
		t.Error("expected email validation error")
	}
	errs = validate.Struct(in{Email: "valid@example.com"})
	if validate.HasErrors(errs) {
		t.Errorf("expected valid email to pass, got: %v", errs)
	}
}

func TestPriceRule(t *testing.T) {
	for _, ok := range []string{"50", "50.0", "50.00", "0.99", "1234.5"} {
		errs := validate.Struct(productInput{
			Name: "Desk Lamp", OriginalPrice: ok, AvailableQuantity: 3, Category: "Home",
		})
		if validate.HasErrors(errs) {
			t.Errorf("expected price %q to pass, got: %v", ok, errs)
		}
	}
	for _, bad := range []string{"-5", "50.000", "1,000", "abc", "5.", "05"} {
		errs := validate.Struct(productInput{
			Name: "Desk Lamp", OriginalPrice: bad, AvailableQuantity: 3, Category: "Home",
		})
		if _, present := errs["original_price"]; !present {
			t.Errorf("expected price %q to fail", bad)
		}
	}
}

func TestQuantityBounds(t *testing.T) {
	type in struct {
		Quantity int `json:"quantity" validate:"required,gte=1,lte=1000"`
	}
	if errs := validate.Struct(in{Quantity: 0}); !validate.HasErrors(errs) {
		t.Error("expected quantity 0 to fail")
	}
	if errs := validate.Struct(in{Quantity: 5}); validate.HasErrors(errs) {
		t.Errorf("expected quantity 5 to pass, got: %v", errs)
	}
}

func TestInRule(t *testing.T) {
	type in struct {
		Driver string `json:"driver" validate:"required,in=local,s3"`
	}
	if errs := validate.Struct(in{Driver: "ftp"}); !validate.HasErrors(errs) {
		t.Error("expected invalid driver to fail")
	}
	if errs := validate.Struct(in{Driver: "s3"}); validate.HasErrors(errs) {
		t.Errorf("expected s3 to pass: %v", errs)
	}
}

func TestConfirmedRule(t *testing.T) {
	type in struct {
		Password             string `json:"password"              validate:"required,min=8"`
		PasswordConfirmation string `json:"password_confirmation" validate:"confirmed"`
	}
	if errs := validate.Struct(in{Password: "secret123", PasswordConfirmation: "wrong"}); !validate.HasErrors(errs) {
		t.Error("expected confirmation mismatch to fail")
	}
	if errs := validate.Struct(in{Password: "secret123", PasswordConfirmation: "secret123"}); validate.HasErrors(errs) {
		t.Errorf("expected matching confirmation to pass: %v", errs)
	}
}

func TestNullableSkipsRules(t *testing.T) {
	type in struct {
		Website string `json:"website" validate:"nullable,url"`
	}
	// Empty string — nullable, should pass even though it's not a URL
	if errs := validate.Struct(in{Website: ""}); validate.HasErrors(errs) {
		t.Errorf("expected empty nullable to pass: %v", errs)
	}
	// Non-empty but invalid URL — should fail
	if errs := validate.Struct(in{Website: "not-a-url"}); !validate.HasErrors(errs) {
		t.Error("expected invalid URL to fail")
	}
}

func TestAlphaDashRule(t *testing.T) {
	type in struct {
		Slug string `json:"slug" validate:"required,alpha_dash"`
	}
	if errs := validate.Struct(in{Slug: "wireless-mouse_v2"}); validate.HasErrors(errs) {
		t.Errorf("expected alpha_dash to pass: %v", errs)
	}
	if errs := validate.Struct(in{Slug: "hello world!"}); !validate.HasErrors(errs) {
		t.Error("expected alpha_dash to fail for spaces/punctuation")
	}
}
