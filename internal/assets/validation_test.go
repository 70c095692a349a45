package assets

import (
	"errors"
	"testing"
)

func TestValidateAssetName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "simple", input: "govuk", wantErr: false},
		{name: "hyphenated", input: "document-html", wantErr: false},
		{name: "empty", input: "", wantErr: true},
		{name: "forward slash", input: "a/b", wantErr: true},
		{name: "backslash", input: `a\b`, wantErr: true},
		{name: "dot extension", input: "govuk.css", wantErr: true},
		{name: "traversal", input: "..", wantErr: true},
		{name: "null byte", input: "a\x00", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateAssetName(tt.input)
			if tt.wantErr && !errors.Is(err, ErrInvalidAssetName) {
				t.Errorf("ValidateAssetName(%q) = %v, want ErrInvalidAssetName", tt.input, err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("ValidateAssetName(%q) = %v, want nil", tt.input, err)
			}
		})
	}
}
