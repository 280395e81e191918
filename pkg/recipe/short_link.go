package recipe

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strconv"
)

const shortLinkLength = 8

// ShortLink derives a stable 8 character token for a recipe id. It is not
// stored anywhere, so it cannot be resolved back to the recipe.
func ShortLink(recipeID uint, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strconv.FormatUint(uint64(recipeID), 10)))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))[:shortLinkLength]
}
