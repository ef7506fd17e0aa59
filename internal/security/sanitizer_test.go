package security

import "testing"

func TestSanitizeStatusName_StripsMarkup(t *testing.T) {
	s := NewContentSanitizer()

	tests := []struct {
		raw  string
		want string
	}{
		{"배송완료", "배송완료"},
		{"<b>배송완료</b>", "배송완료"},
		{"<script>alert(1)</script>배송출발", "배송출발"},
		{"  간선상차  ", "간선상차"},
	}

	for _, tt := range tests {
		if got := s.SanitizeStatusName(tt.raw); got != tt.want {
			t.Errorf("SanitizeStatusName(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}
