package tokens

import "context"

// Verifier validates raw access tokens against a fixed secret. It exists
// so middleware can depend on a small interface instead of the secret.
type Verifier struct {
	secret string
}

func NewVerifier(secret string) *Verifier { return &Verifier{secret: secret} }

func (v *Verifier) Verify(ctx context.Context, raw string) (*Claims, error) {
	return Verify(v.secret, raw)
}
