package scrape

import (
	"bytes"
	"io"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"

	"github.com/okian/stride/internal/domain/model"
)

// productCard is a rough listing-page hit before the product page is read.
type productCard struct {
	Brand string
	Model string
	Title string
	URL   string
}

// productSpecs holds whatever a product page yields. Missing fields stay
// at their zero value and are filled with defaults when the record is built.
type productSpecs struct {
	Categories []string
	PriceUSD   float64
	Plate      model.Plate
	DropMM     float64
	WeightG    int
}

// Brands recognized in product titles. Longer names are listed first so
// "New Balance" is not swallowed by a shorter prefix.
var knownBrands = []string{
	"New Balance",
	"Under Armour",
	"Brooks",
	"ASICS",
	"HOKA",
	"Nike",
	"Adidas",
	"Saucony",
	"Altra",
	"Mizuno",
	"Puma",
	"Reebok",
	"On",
}

var (
	whitespaceRe   = regexp.MustCompile(`\s+`)
	genderPrefixRe = regexp.MustCompile(`(?i)^(men's|men|women's|women|unisex)\s+`)
	priceRe        = regexp.MustCompile(`\$?(\d+\.\d{2})`)
	dropRe         = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*mm\s*(?:heel[- ]to[- ]toe\s*)?(?:drop|offset)|(?:drop|offset)\D{0,12}(\d+(?:\.\d+)?)\s*mm`)
	weightOzRe     = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:ounces?|oz)`)
	weightGRe      = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:grams?|g)\b`)
)

// platePatterns are matched in order; the first hit wins. Context-aware
// patterns come before the bare keyword fallbacks.
var platePatterns = []struct {
	re    *regexp.Regexp
	plate model.Plate
}{
	{regexp.MustCompile(`carbon(?:\s+fiber)?\s+plate`), model.PlateCarbon},
	{regexp.MustCompile(`nylon\s+plate`), model.PlateNylon},
	{regexp.MustCompile(`(?:composite|pebax)\s+plate`), model.PlateNylon},
	{regexp.MustCompile(`(?:no|without)\s+plate`), model.PlateNone},
}

// categoryKeywords maps catalog category tags to the marketing words that
// imply them on a product page.
var categoryKeywords = map[string][]string{
	model.CategoryRace:  {"race", "racing", "competition"},
	model.CategoryTempo: {"tempo", "speed", "fast"},
	model.CategoryDaily: {"daily", "training", "everyday"},
	model.CategoryEasy:  {"easy", "recovery"},
	model.CategoryLong:  {"long run", "long-run", "high mileage"},
	model.CategoryTrail: {"trail", "off-road"},
}

const gramsPerOunce = 28.35

// decodeHTML converts a fetched page to a goquery document, transcoding to
// UTF-8 when the server used another charset.
func decodeHTML(data []byte, contentType string) (*goquery.Document, error) {
	enc, _, _ := charset.DetermineEncoding(data, contentType)
	utf8data, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		if !utf8.Valid(data) {
			return nil, err
		}
		utf8data = data
	}
	return goquery.NewDocumentFromReader(bytes.NewReader(utf8data))
}

// parseListing extracts product cards from a listing page. Cards are
// deduplicated by canonical product path and returned in page order.
func parseListing(r io.Reader, baseURL string) ([]productCard, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}

	var cards []productCard
	seen := make(map[string]struct{})

	doc.Find(`a[href*="/product/"]`).Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok || href == "" {
			return
		}
		canonical := strings.SplitN(strings.SplitN(href, "?", 2)[0], "#", 2)[0]
		if _, dup := seen[canonical]; dup {
			return
		}
		seen[canonical] = struct{}{}

		title := strings.TrimSpace(a.AttrOr("aria-label", ""))
		if len(title) < 5 {
			title = strings.TrimSpace(a.Text())
		}
		if len(title) < 5 {
			// Fall back to the URL slug.
			slug := canonical[strings.LastIndex(canonical, "/")+1:]
			title = strings.Title(strings.ReplaceAll(slug, "-", " ")) //nolint:staticcheck // product slugs are ASCII
		}
		title = whitespaceRe.ReplaceAllString(title, " ")
		if len(title) < 5 {
			return
		}

		brand, modelName := splitBrandModel(title)
		if brand == "" || modelName == "" {
			return
		}

		cards = append(cards, productCard{
			Brand: brand,
			Model: modelName,
			Title: title,
			URL:   resolveURL(baseURL, href),
		})
	})

	return cards, nil
}

// parsePagination collects page links from a listing so every catalog page
// gets visited. The listing URL itself is always the first entry.
func parsePagination(r io.Reader, listingURL string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}

	pages := []string{listingURL}
	seen := map[string]struct{}{listingURL: {}}

	doc.Find(`a[href*="page="]`).Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok {
			return
		}
		u := resolveURL(listingURL, href)
		if _, dup := seen[u]; dup {
			return
		}
		seen[u] = struct{}{}
		pages = append(pages, u)
	})

	return pages, nil
}

// parseProduct extracts catalog specs from a product page. Every field is
// best effort; callers fill defaults for anything missing.
func parseProduct(doc *goquery.Document) productSpecs {
	// Strip boilerplate before flattening to text.
	doc.Find("script,noscript,style").Each(func(_ int, s *goquery.Selection) {
		s.Remove()
	})
	text := strings.ToLower(whitespaceRe.ReplaceAllString(doc.Text(), " "))

	specs := productSpecs{Plate: model.PlateNone}

	for _, p := range platePatterns {
		if p.re.MatchString(text) {
			specs.Plate = p.plate
			break
		}
	}

	for tag, words := range categoryKeywords {
		for _, w := range words {
			if strings.Contains(text, w) {
				specs.Categories = append(specs.Categories, tag)
				break
			}
		}
	}
	sort.Strings(specs.Categories)

	specs.PriceUSD = parsePrice(doc, text)

	if m := dropRe.FindStringSubmatch(text); m != nil {
		for _, g := range m[1:] {
			if g != "" {
				specs.DropMM, _ = strconv.ParseFloat(g, 64)
				break
			}
		}
	}

	if m := weightGRe.FindStringSubmatch(text); m != nil {
		g, _ := strconv.ParseFloat(m[1], 64)
		specs.WeightG = int(math.Round(g))
	} else if m := weightOzRe.FindStringSubmatch(text); m != nil {
		oz, _ := strconv.ParseFloat(m[1], 64)
		specs.WeightG = int(math.Round(oz * gramsPerOunce))
	}

	return specs
}

// parsePrice looks for prices in dedicated price elements first, then
// anywhere in the page text. Multiple hits mean a sale; the highest
// plausible price is taken as the regular price.
func parsePrice(doc *goquery.Document, pageText string) float64 {
	const minPrice, maxPrice = 50, 300

	var candidates []float64
	collect := func(s string) {
		for _, m := range priceRe.FindAllStringSubmatch(s, -1) {
			p, err := strconv.ParseFloat(m[1], 64)
			if err == nil && p >= minPrice && p <= maxPrice {
				candidates = append(candidates, p)
			}
		}
	}

	doc.Find(`[data-testid="price"], .product-price, .price-current, .price-regular, [class*="price"]`).
		Each(func(_ int, s *goquery.Selection) {
			collect(s.Text())
		})
	if len(candidates) == 0 {
		collect(pageText)
	}
	if len(candidates) == 0 {
		return 0
	}

	best := candidates[0]
	for _, p := range candidates[1:] {
		if p > best {
			best = p
		}
	}
	return best
}

// splitBrandModel separates a product title into brand and model using the
// known brand list. Unrecognized brands are dropped rather than guessed.
func splitBrandModel(title string) (string, string) {
	title = genderPrefixRe.ReplaceAllString(title, "")
	lower := strings.ToLower(title)
	for _, brand := range knownBrands {
		prefix := strings.ToLower(brand) + " "
		if strings.HasPrefix(lower, prefix) {
			modelName := strings.TrimSpace(title[len(prefix):])
			modelName = whitespaceRe.ReplaceAllString(modelName, " ")
			if modelName == "" {
				return "", ""
			}
			return brand, modelName
		}
	}
	return "", ""
}

// resolveURL joins a possibly relative href against the page it came from.
func resolveURL(base, href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	b := strings.TrimSuffix(base, "/")
	if i := strings.Index(b, "://"); i >= 0 {
		if j := strings.Index(b[i+3:], "/"); j >= 0 {
			b = b[:i+3+j]
		}
	}
	if !strings.HasPrefix(href, "/") {
		href = "/" + href
	}
	return b + href
}
