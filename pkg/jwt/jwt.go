package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Tipos de token emitidos.
const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

// ErrWrongType el token es válido pero no del tipo esperado (p. ej. un refresh usado como access).
var ErrWrongType = errors.New("jwt: tipo de token inesperado")

// Claims incluye los claims estándar JWT más los campos propios de la aplicación.
// Type distingue access de refresh para que no sean intercambiables.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
	Type   string `json:"type"`
}

// Generate genera un token JWT firmado (HS256) del tipo indicado para userID.
func Generate(secret, userID, tokenType, issuer string, expMinutes int) (string, time.Time, error) {
	if secret == "" {
		return "", time.Time{}, fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	exp := now.Add(time.Duration(expMinutes) * time.Minute)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		UserID: userID,
		Type:   tokenType,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Parse valida firma y expiración y exige que el token sea de tokenType.
func Parse(secret, tokenString, tokenType string) (*Claims, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, fmt.Errorf("claims inválidos")
	}
	if claims.Type != tokenType {
		return nil, ErrWrongType
	}
	return claims, nil
}

// PairConfig secretos y vigencias del par access/refresh.
type PairConfig struct {
	AccessSecret      string
	RefreshSecret     string
	AccessExpMinutes  int
	RefreshExpMinutes int
	Issuer            string
}

// Pair tokens emitidos en login, registro y refresh.
type Pair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

// GeneratePair emite un access token y un refresh token para userID.
func GeneratePair(cfg PairConfig, userID string) (*Pair, error) {
	access, accessExp, err := Generate(cfg.AccessSecret, userID, TypeAccess, cfg.Issuer, cfg.AccessExpMinutes)
	if err != nil {
		return nil, err
	}
	refresh, refreshExp, err := Generate(cfg.RefreshSecret, userID, TypeRefresh, cfg.Issuer, cfg.RefreshExpMinutes)
	if err != nil {
		return nil, err
	}
	return &Pair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}
