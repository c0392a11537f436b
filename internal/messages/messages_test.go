package messages

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/suite"
	"golang.org/x/text/language"

	"github.com/Degagemain/degage-sub000/pkg/requestcontext"
)

type MessagesSuite struct {
	suite.Suite
	bundle *Bundle
}

func TestMessagesSuite(t *testing.T) {
	suite.Run(t, new(MessagesSuite))
}

func (s *MessagesSuite) SetupSuite() {
	b, err := Load("en")
	s.Require().NoError(err)
	s.bundle = b
}

// =============================================================================
// Rendering
// =============================================================================

func (s *MessagesSuite) TestMessage() {
	en := s.bundle.Default()

	s.Run("substitutes placeholders", func() {
		got := en.Message("steps.mileage_check.ok", Params{"mileage": 50000, "max_km": 250000})
		s.Equal("Mileage of 50000 km is within the limit of 250000 km", got)
	})

	s.Run("formats floats without trailing zeros", func() {
		got := en.Message("steps.km_cost.info", Params{"cost": 0.3})
		s.Equal("Total cost per km: 0.3 EUR", got)
	})

	s.Run("unknown key renders as the key", func() {
		s.Equal("steps.nope.ok", en.Message("steps.nope.ok", nil))
	})

	s.Run("missing params leave the placeholder", func() {
		got := en.Message("rejections.mileage", nil)
		s.Equal("mileage above {max_km} km", got)
	})

	s.Run("fixed rejection texts", func() {
		s.Equal("quality criteria not met", en.Message("rejections.quality", nil))
		s.Equal("price criteria not met", en.Message("rejections.price", nil))
	})
}

// =============================================================================
// Catalog completeness
// =============================================================================

func (s *MessagesSuite) TestCatalogsShareKeys() {
	en := s.bundle.Catalog("en")
	for _, locale := range []string{"nl", "fr"} {
		c := s.bundle.Catalog(locale)
		s.Equal(locale, c.Locale().String())
		for _, key := range en.Keys() {
			s.True(c.Has(key), "%s missing %s", locale, key)
		}
	}
}

// =============================================================================
// Negotiation
// =============================================================================

func (s *MessagesSuite) TestNegotiate() {
	s.Run("prefers the best supported language", func() {
		c := s.bundle.Negotiate("de-DE,nl-BE;q=0.8,en;q=0.5")
		s.Equal("nl", c.Locale().String())
	})

	s.Run("falls back to the default on garbage", func() {
		c := s.bundle.Negotiate(";;;")
		s.Equal(language.English, c.Locale())
	})

	s.Run("empty header uses default", func() {
		s.Equal(language.English, s.bundle.Negotiate("").Locale())
	})
}

func (s *MessagesSuite) TestForUsesContextLocale() {
	ctx := requestcontext.WithLocale(context.Background(), "fr")
	got := s.bundle.For(ctx).Message("rejections.quality", nil)
	s.Equal("critères de qualité non atteints", got)

	got = s.bundle.For(context.Background()).Message("rejections.quality", nil)
	s.Equal("quality criteria not met", got)
}

func (s *MessagesSuite) TestMiddleware() {
	var seen string
	h := Middleware(s.bundle)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = requestcontext.Locale(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "fr-BE")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	s.Equal("fr", seen)
	s.Equal("fr", rec.Header().Get("Content-Language"))
}

func (s *MessagesSuite) TestLoadRejectsUnknownDefault() {
	_, err := Load("de")
	s.Error(err)
}
