package server

import (
	"net/http"
	"slices"

	"github.com/gofiber/fiber/v3"

	"eracanvas/internal/catalog"
	"eracanvas/internal/timeline"
)

type facetsResponse struct {
	Categories []string `json:"categories"`
	Materials  []string `json:"materials"`
	Periods    []string `json:"periods"`
}

// listItems serves the items, optionally narrowed by ?category= and
// ?featured=true.
func (s *Server) listItems(c fiber.Ctx) error {
	category := c.Query("category")
	featured := c.Query("featured") == "true"
	if category != "" && !slices.Contains(catalog.Categories, category) {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "unknown category"})
	}

	var items []timeline.Artifact
	switch {
	case category != "" && featured:
		items = slices.DeleteFunc(s.catalog.ByCategory(category), func(a timeline.Artifact) bool { return !a.Featured })
	case category != "":
		items = s.catalog.ByCategory(category)
	case featured:
		items = s.catalog.Featured()
	default:
		items = s.catalog.Items()
	}

	if items == nil {
		items = []timeline.Artifact{}
	}
	return c.JSON(items)
}

func (s *Server) itemFacets(c fiber.Ctx) error {
	return c.JSON(facetsResponse{
		Categories: catalog.Categories,
		Materials:  s.catalog.Materials(),
		Periods:    s.catalog.Periods(),
	})
}

func (s *Server) getItem(c fiber.Ctx) error {
	item, ok := s.catalog.Item(c.Params("id"))
	if !ok {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "item not found"})
	}
	return c.JSON(item)
}

// listLandmarks serves the landmarks, optionally narrowed by ?type=.
func (s *Server) listLandmarks(c fiber.Ctx) error {
	landmarks := s.catalog.Landmarks()
	if t := c.Query("type"); t != "" {
		landmarks = s.catalog.LandmarksByType(timeline.LandmarkType(t))
	}
	if landmarks == nil {
		landmarks = []timeline.Landmark{}
	}
	return c.JSON(landmarks)
}
