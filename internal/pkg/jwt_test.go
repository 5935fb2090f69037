package pkg

import "testing"

func TestGenerateAndParseAccess(t *testing.T) {
	pair, err := GeneratePair(42)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("empty token pair")
	}

	claims, err := ParseAccess(pair.AccessToken)
	if err != nil {
		t.Fatalf("parse access: %v", err)
	}
	if claims.UserID != 42 {
		t.Fatalf("user id: %d", claims.UserID)
	}
}

func TestAccessSecretMismatch(t *testing.T) {
	// refresh token用的是另一把密钥，当作access解析必须失败
	pair, err := GeneratePair(1)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err = ParseAccess(pair.RefreshToken); err == nil {
		t.Fatal("refresh token accepted as access token")
	}
}

func TestRefreshRotatesPair(t *testing.T) {
	pair, err := GeneratePair(7)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	next, err := Refresh(pair.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	claims, err := ParseAccess(next.AccessToken)
	if err != nil {
		t.Fatalf("parse rotated access: %v", err)
	}
	if claims.UserID != 7 {
		t.Fatalf("user id after rotate: %d", claims.UserID)
	}
}

func TestRefreshRejectsGarbage(t *testing.T) {
	if _, err := Refresh("not-a-token"); err == nil {
		t.Fatal("garbage refresh token accepted")
	}
}

func TestRandDigits(t *testing.T) {
	code, err := RandDigits(6)
	if err != nil {
		t.Fatalf("rand digits: %v", err)
	}
	if len(code) != 6 {
		t.Fatalf("length: %d", len(code))
	}
	for _, c := range code {
		if c < '0' || c > '9' {
			t.Fatalf("non digit in code: %q", code)
		}
	}
}
