package main

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"

	"lostfound/internal/identity"
)

// genjwks stands in for the identity provider during local development.
// It generates an RS256 keypair, prints a session token signed with it and
// optionally serves the public JWKS so the server can verify that token.
//
// Usage:
//
//	go run ./cmd/genjwks -sub user_dev -iss http://localhost:9999 -serve :9999
//
// Then start the server with CLERK_ISSUER=http://localhost:9999 and send
// "Authorization: Bearer <token>".
func main() {
	sub := flag.String("sub", "user_dev", "user id placed in the token subject")
	iss := flag.String("iss", "http://localhost:9999", "issuer placed in the token")
	azp := flag.String("azp", "http://localhost:8080", "authorized party (origin) placed in the token")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	kid := flag.String("kid", "dev-session-key", "key id")
	serve := flag.String("serve", "", "address to serve /.well-known/jwks.json on (empty: print only)")
	flag.Parse()

	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		log.Fatalf("Failed to generate private key: %v", err)
	}

	publicJWK, err := jwk.FromRaw(&privateKey.PublicKey)
	if err != nil {
		log.Fatalf("Failed to create JWK from public key: %v", err)
	}
	if err := publicJWK.Set(jwk.KeyIDKey, *kid); err != nil {
		log.Fatalf("Failed to set kid: %v", err)
	}
	if err := publicJWK.Set(jwk.AlgorithmKey, jwa.RS256); err != nil {
		log.Fatalf("Failed to set alg: %v", err)
	}
	if err := publicJWK.Set(jwk.KeyUsageKey, "sig"); err != nil {
		log.Fatalf("Failed to set use: %v", err)
	}

	set := jwk.NewSet()
	if err := set.AddKey(publicJWK); err != nil {
		log.Fatalf("Failed to build JWKS: %v", err)
	}
	jwksJSON, err := json.MarshalIndent(set, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal JWKS: %v", err)
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, &identity.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   *sub,
			Issuer:    *iss,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(*ttl)),
		},
		AuthorizedParty: *azp,
		SessionID:       "sess_dev",
	})
	token.Header["kid"] = *kid
	signed, err := token.SignedString(privateKey)
	if err != nil {
		log.Fatalf("Failed to sign token: %v", err)
	}

	fmt.Println("Public JWKS:")
	fmt.Println(string(jwksJSON))
	fmt.Printf("\nSession token for %s (expires %s):\n%s\n", *sub, now.Add(*ttl).Format(time.RFC3339), signed)

	if *serve == "" {
		return
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /.well-known/jwks.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(jwksJSON)
	})
	fmt.Printf("\nServing JWKS on %s/.well-known/jwks.json\n", *serve)
	srv := &http.Server{Addr: *serve, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	log.Fatal(srv.ListenAndServe())
}
