package jwt

import (
	"context"
	"errors"
	"time"

	"github.com/cmlabs-hris/hris-timeledger/internal/domain/employee"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

var (
	ErrInvalidToken  = errors.New("invalid access token")
	ErrMissingClaims = errors.New("access token is missing employee claims")
)

// Claims is the identity carried by an access token.
type Claims struct {
	EmployeeID string
	Role       employee.Role
}

type Service interface {
	JWTAuth() *jwtauth.JWTAuth
	// IssueAccessToken signs a token the way the identity service does. Used by
	// local tooling and tests; production tokens are issued elsewhere.
	IssueAccessToken(claims Claims, ttl time.Duration) (token string, expiresAt int64, err error)
}

type JWTService struct {
	tokenAuth *jwtauth.JWTAuth
}

func NewJWTService(secretKey string) Service {
	return &JWTService{
		tokenAuth: jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func (j *JWTService) IssueAccessToken(claims Claims, ttl time.Duration) (string, int64, error) {
	expiresAt := time.Now().Add(ttl).Unix()
	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"employee_id": claims.EmployeeID,
		"role":        string(claims.Role),
		"type":        "access",
		"exp":         expiresAt,
	})
	return tokenString, expiresAt, err
}

// ClaimsFromContext reads the verified access token claims placed in ctx by jwtauth.Verifier.
func ClaimsFromContext(ctx context.Context) (Claims, error) {
	token, claims, err := jwtauth.FromContext(ctx)
	if err != nil || token == nil {
		return Claims{}, ErrInvalidToken
	}
	if tokenType, ok := claims["type"].(string); !ok || tokenType != "access" {
		return Claims{}, ErrInvalidToken
	}

	employeeID, ok := claims["employee_id"].(string)
	if !ok || employeeID == "" {
		return Claims{}, ErrMissingClaims
	}
	role, _ := claims["role"].(string)
	if role == "" {
		role = string(employee.RoleEmployee)
	}

	return Claims{EmployeeID: employeeID, Role: employee.Role(role)}, nil
}
