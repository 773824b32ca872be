package scrape

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/okian/stride/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

const listingHTML = `<html><body>
<a href="/product/brooks-ghost-17-mens?color=blue" aria-label="Men's Brooks Ghost 17">card</a>
<a href="/product/brooks-ghost-17-mens#reviews">dup</a>
<a href="/product/nike-vaporfly-3">Men's Nike Vaporfly 3</a>
<a href="/product/mystery-shoe">Generic Trainer 9000</a>
<a href="/category/mens/shoes/running?page=2">2</a>
<a href="/category/mens/shoes/running?page=3">3</a>
</body></html>`

func TestParseListing(t *testing.T) {
	Convey("Given a listing page", t, func() {
		cards, err := parseListing(strings.NewReader(listingHTML), "https://shop.example.com/category/mens")

		Convey("Then product cards are extracted once each", func() {
			So(err, ShouldBeNil)
			So(cards, ShouldHaveLength, 2)
		})

		Convey("And brand and model are split from the title", func() {
			So(err, ShouldBeNil)
			So(cards[0].Brand, ShouldEqual, "Brooks")
			So(cards[0].Model, ShouldEqual, "Ghost 17")
			So(cards[1].Brand, ShouldEqual, "Nike")
			So(cards[1].Model, ShouldEqual, "Vaporfly 3")
		})

		Convey("And relative product links gain the site host", func() {
			So(err, ShouldBeNil)
			So(cards[0].URL, ShouldStartWith, "https://shop.example.com/product/")
		})

		Convey("And titles without a known brand are dropped", func() {
			So(err, ShouldBeNil)
			for _, c := range cards {
				So(c.Brand, ShouldNotEqual, "Generic")
			}
		})
	})
}

func TestParsePagination(t *testing.T) {
	Convey("Given a listing page with numbered pages", t, func() {
		listingURL := "https://shop.example.com/category/mens/shoes/running"
		pages, err := parsePagination(strings.NewReader(listingHTML), listingURL)

		Convey("Then the listing itself comes first", func() {
			So(err, ShouldBeNil)
			So(pages[0], ShouldEqual, listingURL)
		})

		Convey("And each page link appears once", func() {
			So(err, ShouldBeNil)
			So(pages, ShouldHaveLength, 3)
		})
	})

	Convey("Given a page without pagination", t, func() {
		pages, err := parsePagination(strings.NewReader("<html><body></body></html>"), "https://shop.example.com/x")

		Convey("Then only the listing URL is returned", func() {
			So(err, ShouldBeNil)
			So(pages, ShouldHaveLength, 1)
		})
	})
}

func productDoc(t *testing.T, body string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<html><body>" + body + "</body></html>"))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestParseProduct(t *testing.T) {
	Convey("Given a product page describing a carbon racer", t, func() {
		doc := productDoc(t, `
<span class="product-price">$159.99 $259.99</span>
<p>A racing shoe with a full-length carbon plate. 8 mm drop. Weighs 6.4 oz.</p>`)
		specs := parseProduct(doc)

		Convey("Then the plate is detected in context", func() {
			So(specs.Plate, ShouldEqual, model.PlateCarbon)
		})

		Convey("Then the race category is tagged", func() {
			So(specs.Categories, ShouldContain, model.CategoryRace)
		})

		Convey("Then the highest plausible price is the regular price", func() {
			So(specs.PriceUSD, ShouldEqual, 259.99)
		})

		Convey("Then the drop is read in millimeters", func() {
			So(specs.DropMM, ShouldEqual, 8)
		})

		Convey("Then ounces are converted to grams", func() {
			So(specs.WeightG, ShouldEqual, 181) // 6.4 oz * 28.35
		})
	})

	Convey("Given a page that never mentions a plate", t, func() {
		doc := productDoc(t, `<p>An everyday training shoe for daily miles.</p>`)
		specs := parseProduct(doc)

		Convey("Then the plate defaults to none", func() {
			So(specs.Plate, ShouldEqual, model.PlateNone)
		})

		Convey("And the daily category is tagged", func() {
			So(specs.Categories, ShouldContain, model.CategoryDaily)
		})
	})

	Convey("Given a page that says 'no plate'", t, func() {
		doc := productDoc(t, `<p>Tempo shoe, no plate, just foam.</p>`)
		specs := parseProduct(doc)

		Convey("Then the plate is explicitly none", func() {
			So(specs.Plate, ShouldEqual, model.PlateNone)
		})
	})

	Convey("Given a page with a gram weight", t, func() {
		doc := productDoc(t, `<p>Weight: 232 grams with a nylon plate for recovery days.</p>`)
		specs := parseProduct(doc)

		Convey("Then grams are used directly", func() {
			So(specs.WeightG, ShouldEqual, 232)
		})

		Convey("And the nylon plate is detected", func() {
			So(specs.Plate, ShouldEqual, model.PlateNylon)
		})
	})

	Convey("Given a page with prices outside the plausible range", t, func() {
		doc := productDoc(t, `<span class="price-current">$12.99</span><p>Socks bundle at $9.99.</p>`)
		specs := parseProduct(doc)

		Convey("Then no price is extracted", func() {
			So(specs.PriceUSD, ShouldEqual, 0)
		})
	})
}

func TestSplitBrandModel(t *testing.T) {
	Convey("Given product titles", t, func() {
		Convey("A gendered prefix is stripped", func() {
			brand, m := splitBrandModel("Men's Brooks Ghost 17")
			So(brand, ShouldEqual, "Brooks")
			So(m, ShouldEqual, "Ghost 17")
		})

		Convey("Two-word brands match before shorter ones", func() {
			brand, m := splitBrandModel("New Balance Fresh Foam X 1080v14")
			So(brand, ShouldEqual, "New Balance")
			So(m, ShouldEqual, "Fresh Foam X 1080v14")
		})

		Convey("Unknown brands yield nothing", func() {
			brand, m := splitBrandModel("Fancy Unknown Shoe")
			So(brand, ShouldBeBlank)
			So(m, ShouldBeBlank)
		})

		Convey("A brand with no model yields nothing", func() {
			brand, _ := splitBrandModel("Nike ")
			So(brand, ShouldBeBlank)
		})
	})
}
