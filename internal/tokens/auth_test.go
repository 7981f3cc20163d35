package tokens

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/suite"
)

type IssuerSuite struct {
	suite.Suite
	now    time.Time
	issuer *Issuer
}

func TestIssuerSuite(t *testing.T) {
	suite.Run(t, new(IssuerSuite))
}

func (s *IssuerSuite) SetupTest() {
	s.now = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	issuer, err := NewIssuer([]byte("secret"), time.Hour, WithClock(s.clock))
	s.Require().NoError(err)
	s.issuer = issuer
}

func (s *IssuerSuite) clock() time.Time {
	return s.now
}

func (s *IssuerSuite) TestNewIssuer() {
	_, err := NewIssuer(nil, time.Hour)
	s.Require().Error(err)

	i, err := NewIssuer([]byte("k"), 0)
	s.Require().NoError(err)
	s.Equal(DefaultTTL, i.TTL())
}

func (s *IssuerSuite) TestIssueVerify() {
	token, err := s.issuer.Issue("account-1")
	s.Require().NoError(err)
	s.Require().NotEmpty(token)

	accountID, err := s.issuer.Verify(token)
	s.Require().NoError(err)
	s.Equal("account-1", accountID)

	_, err = s.issuer.Issue("")
	s.Require().Error(err)
}

func (s *IssuerSuite) TestVerifyExpired() {
	token, err := s.issuer.Issue("account-1")
	s.Require().NoError(err)

	s.now = s.now.Add(time.Hour + time.Minute)
	_, err = s.issuer.Verify(token)
	s.Require().ErrorIs(err, ErrTokenExpired)
}

func (s *IssuerSuite) TestVerifyRejects() {
	valid, err := s.issuer.Issue("account-1")
	s.Require().NoError(err)

	otherKey, err := NewIssuer([]byte("other"), time.Hour, WithClock(s.clock))
	s.Require().NoError(err)
	foreign, err := otherKey.Issue("account-1")
	s.Require().NoError(err)

	otherName, err := NewIssuer([]byte("secret"), time.Hour, WithClock(s.clock), WithName("someone-else"))
	s.Require().NoError(err)
	wrongIssuer, err := otherName.Issue("account-1")
	s.Require().NoError(err)

	noneAlg, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "account-1",
		Issuer:    "minurl",
		ExpiresAt: jwt.NewNumericDate(s.now.Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	s.Require().NoError(err)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "account-1",
		Issuer:  "minurl",
	}).SignedString([]byte("secret"))
	s.Require().NoError(err)

	parts := strings.Split(valid, ".")
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "garbage", token: "not-a-jwt"},
		{name: "tampered payload", token: tampered},
		{name: "foreign key", token: foreign},
		{name: "wrong issuer", token: wrongIssuer},
		{name: "alg none", token: noneAlg},
		{name: "no expiry", token: noExp},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, verifyErr := s.issuer.Verify(tt.token)
			s.Require().ErrorIs(verifyErr, ErrTokenInvalid)
		})
	}
}
