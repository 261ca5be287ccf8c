package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type amountRequest struct {
	Amount   string `validate:"required,positive_decimal"`
	Platform string `validate:"required,oneof=ios android web"`
}

func TestCustomValidator(t *testing.T) {
	v := New()

	tests := []struct {
		name    string
		req     amountRequest
		wantErr bool
	}{
		{name: "valid", req: amountRequest{Amount: "1.5", Platform: "ios"}},
		{name: "zero amount", req: amountRequest{Amount: "0", Platform: "ios"}, wantErr: true},
		{name: "negative amount", req: amountRequest{Amount: "-2", Platform: "web"}, wantErr: true},
		{name: "not a number", req: amountRequest{Amount: "ten", Platform: "web"}, wantErr: true},
		{name: "missing amount", req: amountRequest{Platform: "android"}, wantErr: true},
		{name: "unknown platform", req: amountRequest{Amount: "1", Platform: "symbian"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(&tt.req)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
