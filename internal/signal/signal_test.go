package signal

import "testing"

func TestPresent(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		keywords []string
		want     bool
	}{
		{"match", "Teste A/B com coorte", []string{"a/b"}, true},
		{"case-insensitive", "PRODUÇÃO imediata", []string{"produção"}, true},
		{"no diacritic folding", "producao", []string{"produção"}, false},
		{"unaccented listed", "producao", []string{"produção", "producao"}, true},
		{"substring", "retencao de dados", []string{"reten"}, true},
		{"no match", "nada relevante", []string{"piloto", "poc"}, false},
		{"empty keywords", "qualquer texto", nil, false},
		{"empty text", "", []string{"x"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Present(tt.text, tt.keywords...); got != tt.want {
				t.Errorf("Present(%q, %v) = %v, want %v", tt.text, tt.keywords, got, tt.want)
			}
		})
	}
}

func TestAll(t *testing.T) {
	if !All("Se automatizar, então reduz", "se", "então") {
		t.Error("expected both keywords to be found")
	}
	if All("Se automatizar", "se", "então") {
		t.Error("expected missing keyword to fail")
	}
	if All("anything") {
		t.Error("expected empty keyword set to be false")
	}
}

func TestWellFormed(t *testing.T) {
	tests := []struct {
		s      string
		minLen int
		want   bool
	}{
		{"", 2, false},
		{"   ", 2, false},
		{"abc", 2, true},
		{"  ab  ", 2, false},
		{"conversão", 5, true},
		{"ação", 4, false},
	}
	for _, tt := range tests {
		if got := WellFormed(tt.s, tt.minLen); got != tt.want {
			t.Errorf("WellFormed(%q, %d) = %v, want %v", tt.s, tt.minLen, got, tt.want)
		}
	}
}
