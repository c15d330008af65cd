package detector

import "testing"

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		codes   []string
		wantErr bool
	}{
		{"two languages", []string{"en", "de"}, false},
		{"upper case", []string{"EN", " fr "}, false},
		{"single language", []string{"en"}, true},
		{"duplicates collapse", []string{"en", "en"}, true},
		{"unknown code", []string{"en", "zz"}, true},
		{"empty", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.codes)
			if (err != nil) != tt.wantErr {
				t.Errorf("New(%v) error = %v, wantErr %v", tt.codes, err, tt.wantErr)
			}
		})
	}
}

func TestDetect(t *testing.T) {
	d, err := New([]string{"en", "de", "fr", "es"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	tests := []struct {
		text string
		want string
	}{
		{"The cluster runs on three small machines in the basement and has been surprisingly reliable.", "en"},
		{"Der Cluster läuft auf drei kleinen Rechnern im Keller und ist erstaunlich zuverlässig.", "de"},
		{"Le cluster fonctionne sur trois petites machines dans la cave et il est étonnamment fiable.", "fr"},
		{"El clúster funciona en tres máquinas pequeñas en el sótano y ha sido sorprendentemente fiable.", "es"},
	}
	for _, tt := range tests {
		got, ok := d.Detect(tt.text)
		if !ok || got != tt.want {
			t.Errorf("Detect(%q) = %q, %v, want %q, true", tt.text, got, ok, tt.want)
		}
	}

	if _, ok := d.Detect("   "); ok {
		t.Error("Detect(blank) ok = true, want false")
	}
}
