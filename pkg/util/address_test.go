package util

import "testing"

func TestIsSolanaAddress(t *testing.T) {
	valid := []string{
		"So11111111111111111111111111111111111111112",
		"7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU",
	}
	for _, s := range valid {
		if !IsSolanaAddress(s) {
			t.Fatalf("%s should be valid", s)
		}
	}

	invalid := []string{
		"",
		"short",
		"0OIl0OIl0OIl0OIl0OIl0OIl0OIl0OIl0OIl0OIl0OI", // non-base58 chars
		"So11111111111111111111111111111111111111112extracharsmakeittoolong",
	}
	for _, s := range invalid {
		if IsSolanaAddress(s) {
			t.Fatalf("%s should be invalid", s)
		}
	}
}
