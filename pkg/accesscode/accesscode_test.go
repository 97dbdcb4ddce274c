package accesscode

import "testing"

func TestGenerate_Format(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, err := Generate()
		if err != nil {
			t.Fatalf("Generate 应成功: %v", err)
		}
		if !Valid(code) {
			t.Fatalf("访问码格式非法: %q", code)
		}
	}
}

func TestGenerate_Varies(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, _ := Generate()
		seen[code] = true
	}
	if len(seen) < 45 {
		t.Errorf("50 次生成仅得到 %d 个不同访问码", len(seen))
	}
}

func TestNormalize(t *testing.T) {
	if got := Normalize("  ab12cd \n"); got != "AB12CD" {
		t.Errorf("期望 AB12CD，实际 %q", got)
	}
}

func TestValid(t *testing.T) {
	cases := map[string]bool{
		"ABC123":  true,
		"abc123":  false,
		"ABC12":   false,
		"ABC1234": false,
		"ABC-12":  false,
	}
	for code, want := range cases {
		if got := Valid(code); got != want {
			t.Errorf("Valid(%q) = %v，期望 %v", code, got, want)
		}
	}
}
