// Package jwt signs and validates the bearer tokens issued by the PackList
// API.
//
// Tokens are HS256 signed with a shared secret. The subject is the
// username; user_id, username and email ride along as private claims.
//
//	service, err := jwt.NewService(jwt.Config{
//	    Secret:     os.Getenv("JWT_SECRET"),
//	    Issuer:     "packlist-api",
//	    Expiration: 7 * 24 * time.Hour,
//	})
//
//	token, err := service.Sign(jwt.Claims{UserID: u.ID, Username: u.Username})
//
//	claims, err := service.Validate(token)
//	if errors.Is(err, jwt.ErrTokenExpired) {
//	    // ask the client to log in again
//	}
package jwt
