package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodePlacement(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		raw     string
		want    Placement
		wantErr error
	}{
		{name: "slip number", token: "slip", raw: "12", want: Slip{Number: 12}},
		{name: "slip non-numeric decodes to zero", token: "slip", raw: "abc", want: Slip{Number: 0}},
		{name: "slip leading digits used", token: "slip", raw: "7b", want: Slip{Number: 7}},
		{name: "slip negative", token: "slip", raw: "-3", want: Slip{Number: -3}},
		{name: "land first character", token: "land", raw: "C", want: Land{Bay: "C"}},
		{name: "land keeps only first character", token: "land", raw: "Dx", want: Land{Bay: "D"}},
		{name: "land multibyte character", token: "land", raw: "Äb", want: Land{Bay: "Ä"}},
		{name: "land invalid UTF-8 keeps raw byte", token: "land", raw: "\xffZ", want: Land{Bay: "\xff"}},
		{name: "land empty field", token: "land", raw: "", want: Land{}},
		{name: "trailer tag verbatim", token: "trailor", raw: "MX123", want: Trailer{Tag: "MX123"}},
		{name: "storage space", token: "storage", raw: "3", want: Storage{Space: 3}},
		{name: "storage with spaces", token: "storage", raw: " 41", want: Storage{Space: 41}},
		{name: "storage empty decodes to zero", token: "storage", raw: "", want: Storage{Space: 0}},
		{name: "trailer spelled correctly is unknown", token: "trailer", raw: "X", wantErr: ErrUnknownPlaceType},
		{name: "token is case-sensitive", token: "Slip", raw: "1", wantErr: ErrUnknownPlaceType},
		{name: "dock is unknown", token: "dock", raw: "4", wantErr: ErrUnknownPlaceType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodePlacement(tt.token, tt.raw)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodePlacementStrict(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		raw     string
		want    Placement
		wantErr error
	}{
		{name: "slip number", token: "slip", raw: "12", want: Slip{Number: 12}},
		{name: "slip non-numeric rejected", token: "slip", raw: "abc", wantErr: ErrMalformedRecord},
		{name: "storage trailing junk rejected", token: "storage", raw: "3x", wantErr: ErrMalformedRecord},
		{name: "land single character", token: "land", raw: "B", want: Land{Bay: "B"}},
		{name: "land two characters rejected", token: "land", raw: "BB", wantErr: ErrMalformedRecord},
		{name: "trailer nine characters", token: "trailor", raw: "ABCDEFGHI", want: Trailer{Tag: "ABCDEFGHI"}},
		{name: "trailer ten characters rejected", token: "trailor", raw: "ABCDEFGHIJ", wantErr: ErrMalformedRecord},
		{name: "trailer empty rejected", token: "trailor", raw: "", wantErr: ErrMalformedRecord},
		{name: "unknown token", token: "dock", raw: "1", wantErr: ErrUnknownPlaceType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodePlacementStrict(tt.token, tt.raw)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPlacementEncode(t *testing.T) {
	tests := []struct {
		placement Placement
		token     string
		field     string
		placeType PlaceType
	}{
		{Slip{Number: 27}, "slip", "27", PlaceSlip},
		{Land{Bay: "A"}, "land", "A", PlaceLand},
		{Trailer{Tag: "CAB123"}, "trailor", "CAB123", PlaceTrailer},
		{Storage{Space: 3}, "storage", "3", PlaceStorage},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			token, field := tt.placement.Encode()
			assert.Equal(t, tt.token, token)
			assert.Equal(t, tt.field, field)
			assert.Equal(t, tt.placeType, tt.placement.Type())

			back, err := DecodePlacement(token, field)
			require.NoError(t, err)
			assert.Equal(t, tt.placement, back)
		})
	}
}

func TestPlaceTypeTokenAndLabel(t *testing.T) {
	for token, pt := range placeTokens {
		assert.Equal(t, token, pt.Token())
		got, err := ParsePlaceType(token)
		require.NoError(t, err)
		assert.Equal(t, pt, got)
	}
	assert.Equal(t, "Trailor", PlaceTrailer.Label())
	assert.Equal(t, "Unknown", PlaceType(42).Label())
	assert.Empty(t, PlaceType(42).Token())
}

func TestPlacementString(t *testing.T) {
	assert.Equal(t, "Slip 27", Slip{Number: 27}.String())
	assert.Equal(t, "Land C", Land{Bay: "C"}.String())
	assert.Equal(t, "Land", Land{}.String())
	assert.Equal(t, "Trailor MX2345", Trailer{Tag: "MX2345"}.String())
	assert.Equal(t, "Storage 3", Storage{Space: 3}.String())
}

func TestLandRawByteRoundTrip(t *testing.T) {
	b, err := ParseLine("Odd,10,land,\xe9,0.00")
	require.NoError(t, err)
	assert.Equal(t, Land{Bay: "\xe9"}, b.Placement)
	assert.Equal(t, "Odd,10,land,\xe9,0.00", b.FormatLine())
}
