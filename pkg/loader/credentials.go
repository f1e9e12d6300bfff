package loader

import "context"

// CredentialSource yields the token used for remote repository reads.
type CredentialSource interface {
	Token(ctx context.Context) (string, bool)
}

// StaticCredentials is a fixed token, for example from the environment.
type StaticCredentials string

func (s StaticCredentials) Token(context.Context) (string, bool) {
	return string(s), s != ""
}

type tokenKey struct{}

// WithToken attaches a caller's token to ctx, for ContextCredentials to find.
func WithToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, tokenKey{}, token)
}

func TokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenKey{}).(string)
	return token, ok && token != ""
}

// ContextCredentials reads the token a request handler stored in the
// context, falling back to Fallback when there is none.
type ContextCredentials struct {
	Fallback CredentialSource
}

func (c ContextCredentials) Token(ctx context.Context) (string, bool) {
	if token, ok := TokenFromContext(ctx); ok {
		return token, true
	}
	if c.Fallback != nil {
		return c.Fallback.Token(ctx)
	}
	return "", false
}
