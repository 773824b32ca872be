package smoke

import (
	"testing"

	"github.com/okian/stride/internal/domain/model"
	"github.com/okian/stride/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func result(brand, modelName string, price float64, score int, categories ...string) types.ScoredResult {
	if len(categories) == 0 {
		categories = []string{"daily"}
	}
	return types.ScoredResult{
		Brand:      brand,
		Model:      modelName,
		Categories: categories,
		PriceUSD:   price,
		Plate:      "none",
		DropMM:     8,
		WeightG:    260,
		Score:      score,
		Reasons:    []string{"Matches your criteria"},
	}
}

func TestVerifyResponse(t *testing.T) {
	Convey("Given a well-behaved response", t, func() {
		req := recommendRequest{NumRecommendations: 3}
		resp := recommendResponse{Results: []types.ScoredResult{
			result("Brooks", "Ghost 17", 165, 90),
			result("Nike", "Pegasus 41", 140, 80),
		}}

		Convey("Then it verifies", func() {
			So(verifyResponse(req, resp), ShouldBeNil)
		})
	})

	Convey("Given more results than requested", t, func() {
		req := recommendRequest{NumRecommendations: 1}
		resp := recommendResponse{Results: []types.ScoredResult{
			result("Brooks", "Ghost 17", 165, 90),
			result("Nike", "Pegasus 41", 140, 80),
		}}

		Convey("Then it fails", func() {
			So(verifyResponse(req, resp), ShouldNotBeNil)
		})
	})

	Convey("Given results out of order", t, func() {
		req := recommendRequest{NumRecommendations: 3}
		resp := recommendResponse{Results: []types.ScoredResult{
			result("Nike", "Pegasus 41", 140, 80),
			result("Brooks", "Ghost 17", 165, 90),
		}}

		Convey("Then it fails", func() {
			So(verifyResponse(req, resp), ShouldNotBeNil)
		})
	})

	Convey("Given a result over the budget ceiling", t, func() {
		req := recommendRequest{NumRecommendations: 3}
		req.CostLimiter = model.CostLimiter{Enabled: true, MaxUSD: 150}
		resp := recommendResponse{Results: []types.ScoredResult{
			result("Brooks", "Ghost 17", 165, 90),
		}}

		Convey("Then it fails", func() {
			So(verifyResponse(req, resp), ShouldNotBeNil)
		})
	})

	Convey("Given a result from an excluded brand", t, func() {
		req := recommendRequest{NumRecommendations: 3}
		req.BrandPreferences = []string{"Nike"}
		resp := recommendResponse{Results: []types.ScoredResult{
			result("Brooks", "Ghost 17", 165, 90),
		}}

		Convey("Then it fails", func() {
			So(verifyResponse(req, resp), ShouldNotBeNil)
		})
	})

	Convey("Given a trail-only result for a road request", t, func() {
		req := recommendRequest{NumRecommendations: 3}
		resp := recommendResponse{Results: []types.ScoredResult{
			result("HOKA", "Speedgoat 6", 155, 70, "trail"),
		}}

		Convey("Then it fails", func() {
			So(verifyResponse(req, resp), ShouldNotBeNil)
		})
	})
}

func TestVerifyDeterminism(t *testing.T) {
	first := recommendResponse{Results: []types.ScoredResult{
		result("Brooks", "Ghost 17", 165, 90),
		result("Nike", "Pegasus 41", 140, 80),
	}}

	Convey("Given two identical rankings", t, func() {
		second := recommendResponse{Results: []types.ScoredResult{
			result("Brooks", "Ghost 17", 165, 90),
			result("Nike", "Pegasus 41", 140, 80),
		}}

		Convey("Then determinism holds", func() {
			So(verifyDeterminism(first, second), ShouldBeNil)
		})

		Convey("And differing explanations are ignored", func() {
			second.Results[0].Explanation = "free text varies"
			So(verifyDeterminism(first, second), ShouldBeNil)
		})
	})

	Convey("Given rankings of different length", t, func() {
		second := recommendResponse{Results: first.Results[:1]}

		Convey("Then determinism fails", func() {
			So(verifyDeterminism(first, second), ShouldNotBeNil)
		})
	})

	Convey("Given a swapped ranking", t, func() {
		second := recommendResponse{Results: []types.ScoredResult{
			result("Nike", "Pegasus 41", 140, 80),
			result("Brooks", "Ghost 17", 165, 90),
		}}

		Convey("Then determinism fails", func() {
			So(verifyDeterminism(first, second), ShouldNotBeNil)
		})
	})
}
