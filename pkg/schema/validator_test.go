package schema

import "testing"

func TestValidateComponentConfig(t *testing.T) {
	tests := []struct {
		name    string
		config  map[string]any
		wantErr bool
	}{
		{name: "nil config", config: nil, wantErr: false},
		{name: "no source", config: map[string]any{"other": "value"}, wantErr: false},
		{name: "nil source", config: map[string]any{"source": nil}, wantErr: false},
		{name: "single string source", config: map[string]any{"source": "src"}, wantErr: false},
		{name: "list source", config: map[string]any{"source": []any{"src1", "src2:feed"}}, wantErr: false},
		{name: "numeric source rejected", config: map[string]any{"source": 42}, wantErr: true},
		{name: "list of numbers rejected", config: map[string]any{"source": []any{1, 2}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateComponentConfig(tt.config)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateComponentConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateAgainstSchema(t *testing.T) {
	s := `{"type": "object", "required": ["name"], "properties": {"name": {"type": "string"}}}`

	if err := ValidateAgainstSchema(s, "config", map[string]any{"name": "src"}); err != nil {
		t.Errorf("expected valid config, got error: %v", err)
	}

	err := ValidateAgainstSchema(s, "config", map[string]any{"other": "value"})
	if err == nil {
		t.Fatal("expected validation error for missing required field")
	}
	var ve *ValidationError
	if !asValidationError(err, &ve) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if ve.Field != "config" {
		t.Errorf("expected field 'config', got %q", ve.Field)
	}
}

func asValidationError(err error, target **ValidationError) bool {
	ve, ok := err.(*ValidationError)
	if ok {
		*target = ve
	}
	return ok
}
