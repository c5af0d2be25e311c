// Package mocks provides function-field fakes of the service interfaces the
// HTTP layer depends on.
//
// Each mock exposes one Fn field per interface method. A nil Fn falls back
// to the mock's default fields (Err and a canned result), so most tests only
// set what they assert on:
//
//	jwt := &mocks.MockJWTService{
//	    ValidateTokenFn: func(ctx context.Context, token string) (*auth.Claims, error) {
//	        return &auth.Claims{UserID: userID}, nil
//	    },
//	}
package mocks
