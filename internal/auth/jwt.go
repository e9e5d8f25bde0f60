package auth

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// The signing key comes from the environment; the fallback keeps local
// development working without a .env file.
var jwtSecretKey = []byte(secretFromEnv())

func secretFromEnv() string {
	if s := os.Getenv("JWT_SECRET"); s != "" {
		return s
	}
	return "A_VERY_SECURE_SECRET_KEY_REPLACE_LATER"
}

// Claims is the decoded identity the rest of the backend trusts.
// The access policy receives this pre-validated pair instead of parsing
// tokens itself.
type Claims struct {
	UserID int64
	Role   string
	Name   string
	Email  string
}

// GenerateToken creates a new JWT for a given user.
// The payload carries sub (user id), role, name, email and exp, the same
// fields the web client decodes to build its session user.
func GenerateToken(userID int64, role, name, email string) (string, error) {
	claims := jwt.MapClaims{
		"sub":   userID,
		"role":  role,
		"name":  name,
		"email": email,
		"exp":   time.Now().Add(time.Hour * 72).Unix(), // Expires in 3 days
		"iat":   time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(jwtSecretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ValidateToken parses and validates a JWT token string and returns the
// identity claims it carries.
func ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Reject tokens signed with anything but our HMAC scheme.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return jwtSecretKey, nil
	})
	if err != nil {
		return nil, err // Token parsing failed (e.g. expired, malformed)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	// "sub" arrives as JSON's float64 number type.
	userIDFloat, ok := claims["sub"].(float64)
	if !ok {
		return nil, errors.New("invalid subject claim")
	}

	role, _ := claims["role"].(string)
	if role == "" {
		return nil, errors.New("missing role claim")
	}

	name, _ := claims["name"].(string)
	email, _ := claims["email"].(string)

	return &Claims{
		UserID: int64(userIDFloat),
		Role:   role,
		Name:   name,
		Email:  email,
	}, nil
}
