package paycek

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	pkgerrors "github.com/kevin07696/paycek-go/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Reference digests computed independently with SHA3-512 over the framed fields.
const (
	goldenOpenPaymentMAC = "b148623b3ed72818f22f9892264fdf4cdff508b1cf3e8098af95b75d84f793e4ff6eab205ba3ae78381acc6d382279ece55e09bbf036a75b7583b1c4886160c8"
	goldenEmptyMAC       = "0ade1db9cc8552ed5997a5642d835ebd191367d08c24564a735a16f777ec7a0f02e7575e5c778e39d6cdfa79006cd96bc4b40967abbc23b9109eed2f296af8f6"
	goldenCallbackGETMAC = "03d6ab3085eeac8d531020ee8522816faa6ee08ac162bda71989c84abb7443c7ccbf1ca1c4e719c0d7e92a762d00e91fbf1418901b591121729768e71446d616"
)

func TestSign_GoldenVectors(t *testing.T) {
	tests := []struct {
		name        string
		key         string
		secret      string
		nonce       string
		method      string
		path        string
		contentType string
		body        []byte
		want        string
	}{
		{
			name:        "open payment",
			key:         "k1",
			secret:      "s1",
			nonce:       "1700000000000",
			method:      "POST",
			path:        "/processing/api/payment/open",
			contentType: "application/json",
			body:        []byte(`{"profile_code":"abc","dst_amount":"10.00"}`),
			want:        goldenOpenPaymentMAC,
		},
		{
			// seven empty fields: eight zero bytes in total
			name: "all fields empty",
			want: goldenEmptyMAC,
		},
		{
			name:   "body-less GET callback",
			key:    "k1",
			secret: "s1",
			nonce:  "1700000000000",
			method: "GET",
			path:   "/paycek/callback",
			want:   goldenCallbackGETMAC,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sign(tt.key, tt.secret, tt.nonce, tt.method, tt.path, tt.contentType, tt.body)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSign_Format(t *testing.T) {
	got := Sign("k1", "s1", "1", "POST", "/processing/api/payment/get", "application/json", []byte(`{}`))

	assert.Len(t, got, 128, "SHA3-512 should produce 128 character hex string")
	assert.Regexp(t, "^[0-9a-f]{128}$", got, "Should be lowercase hex")
}

func TestSign_Deterministic(t *testing.T) {
	body := []byte(`{"payment_code":"p-1"}`)

	sig1 := Sign("key", "secret", "1700000000000", "POST", "/processing/api/payment/get", "application/json", body)
	sig2 := Sign("key", "secret", "1700000000000", "POST", "/processing/api/payment/get", "application/json", body)

	assert.Equal(t, sig1, sig2, "Same input should produce same signature")
}

func TestSign_FramingPreventsFieldSplicing(t *testing.T) {
	// "ab"+"c" and "a"+"bc" concatenate to the same bytes but must not collide
	sig1 := Sign("ab", "c", "n", "POST", "/p", "application/json", nil)
	sig2 := Sign("a", "bc", "n", "POST", "/p", "application/json", nil)
	assert.NotEqual(t, sig1, sig2)

	// moving bytes between path and content type
	sig3 := Sign("k", "s", "n", "POST", "/p/app", "lication/json", nil)
	sig4 := Sign("k", "s", "n", "POST", "/p/", "application/json", nil)
	assert.NotEqual(t, sig3, sig4)
}

func TestSign_EveryFieldChangesOutput(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	randomString := func() string {
		const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789/_-."
		b := make([]byte, 1+rng.Intn(24))
		for i := range b {
			b[i] = alphabet[rng.Intn(len(alphabet))]
		}
		return string(b)
	}

	for i := 0; i < 200; i++ {
		fields := []string{randomString(), randomString(), randomString(), randomString(), randomString(), randomString(), randomString()}
		sign := func(f []string) string {
			return Sign(f[0], f[1], f[2], f[3], f[4], f[5], []byte(f[6]))
		}
		base := sign(fields)

		for idx := range fields {
			mutated := append([]string(nil), fields...)
			b := []byte(mutated[idx])
			pos := rng.Intn(len(b))
			b[pos] ^= byte(1 + rng.Intn(255))
			mutated[idx] = string(b)

			assert.NotEqual(t, base, sign(mutated), fmt.Sprintf("iteration %d: mutating field %d did not change the MAC", i, idx))
		}
	}
}

func TestVerify(t *testing.T) {
	creds := Credentials{APIKey: "k1", APISecret: "s1"}
	path := "/paycek/callback"
	body := []byte(`{"payment_code":"p-1","status":"paid"}`)
	nonce := "1700000000000"
	validMAC := Sign(creds.APIKey, creds.APISecret, nonce, "POST", path, "application/json", body)

	altered := []byte(validMAC)
	if altered[0] == 'a' {
		altered[0] = 'b'
	} else {
		altered[0] = 'a'
	}

	tests := []struct {
		name        string
		creds       Credentials
		nonce       string
		path        string
		body        []byte
		method      string
		contentType string
		mac         string
		want        bool
	}{
		{name: "valid signature", creds: creds, nonce: nonce, path: path, body: body, method: "POST", contentType: "application/json", mac: validMAC, want: true},
		{name: "missing mac", creds: creds, nonce: nonce, path: path, body: body, method: "POST", contentType: "application/json", mac: "", want: false},
		{name: "missing nonce", creds: creds, nonce: "", path: path, body: body, method: "POST", contentType: "application/json", mac: validMAC, want: false},
		{name: "mac altered by one character", creds: creds, nonce: nonce, path: path, body: body, method: "POST", contentType: "application/json", mac: string(altered), want: false},
		{name: "uppercase mac", creds: creds, nonce: nonce, path: path, body: body, method: "POST", contentType: "application/json", mac: strings.ToUpper(validMAC), want: false},
		{name: "truncated mac", creds: creds, nonce: nonce, path: path, body: body, method: "POST", contentType: "application/json", mac: validMAC[:64], want: false},
		{name: "wrong secret", creds: Credentials{APIKey: "k1", APISecret: "other"}, nonce: nonce, path: path, body: body, method: "POST", contentType: "application/json", mac: validMAC, want: false},
		{name: "different nonce", creds: creds, nonce: "1700000000001", path: path, body: body, method: "POST", contentType: "application/json", mac: validMAC, want: false},
		{name: "different body", creds: creds, nonce: nonce, path: path, body: []byte(`{"payment_code":"p-2","status":"paid"}`), method: "POST", contentType: "application/json", mac: validMAC, want: false},
		{name: "different method", creds: creds, nonce: nonce, path: path, body: body, method: "GET", contentType: "application/json", mac: validMAC, want: false},
		{name: "different path", creds: creds, nonce: nonce, path: "/other", body: body, method: "POST", contentType: "application/json", mac: validMAC, want: false},
		{name: "different content type", creds: creds, nonce: nonce, path: path, body: body, method: "POST", contentType: "", mac: validMAC, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Verify(tt.creds, tt.nonce, tt.path, tt.body, tt.method, tt.contentType, tt.mac)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCredentials_SignRequest(t *testing.T) {
	creds := Credentials{APIKey: "k1", APISecret: "s1"}
	body := []byte(`{"profile_code":"abc","dst_amount":"10.00"}`)

	signed := creds.SignRequest("1700000000000", "POST", "/processing/api/payment/open", "application/json", body)

	assert.Equal(t, goldenOpenPaymentMAC, signed.MAC)
	assert.Equal(t, "1700000000000", signed.Nonce)
	assert.Equal(t, body, signed.Body)
	assert.True(t, Verify(creds, signed.Nonce, signed.EndpointPath, signed.Body, signed.Method, signed.ContentType, signed.MAC))
}

func TestCredentials_Validate(t *testing.T) {
	require.NoError(t, Credentials{APIKey: "k", APISecret: "s"}.Validate())

	err := Credentials{APISecret: "s"}.Validate()
	var validationErr *pkgerrors.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "api_key", validationErr.Field)

	err = Credentials{APIKey: "k"}.Validate()
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "api_secret", validationErr.Field)
}

func TestCredentials_RedactsSecret(t *testing.T) {
	creds := Credentials{APIKey: "public-key", APISecret: "super-secret"}

	for _, s := range []string{creds.String(), fmt.Sprintf("%v", creds), fmt.Sprintf("%+v", creds), fmt.Sprintf("%#v", creds)} {
		assert.NotContains(t, s, "super-secret")
		assert.Contains(t, s, "public-key")
	}
}
