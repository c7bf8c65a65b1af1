package qdrant_test

import (
	"context"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Gorgooo61/AI-character/pkg/vector"
	"github.com/Gorgooo61/AI-character/pkg/vector/qdrant"
)

var _ = Describe("Driver", func() {
	Describe("NewDriver", func() {
		It("should require a host", func() {
			_, err := qdrant.NewDriver(context.Background(), qdrant.Config{Dimensions: 4}, nil)
			Expect(err).To(MatchError(ContainSubstring("qdrant host is required")))
		})

		It("should require dimensions", func() {
			_, err := qdrant.NewDriver(context.Background(), qdrant.Config{Host: "localhost"}, nil)
			Expect(err).To(MatchError(ContainSubstring("dimensions must be set")))
		})
	})

	Describe("PointID", func() {
		It("should map document IDs to stable UUIDs", func() {
			id := qdrant.PointID("0f1e2d")
			Expect(uuid.Validate(id)).To(Succeed())
			Expect(qdrant.PointID("0f1e2d")).To(Equal(id))
			Expect(qdrant.PointID("0f1e2e")).NotTo(Equal(id))
		})
	})

	Describe("Interface compliance", func() {
		It("should implement vector.Driver interface", func() {
			var _ vector.Driver = (*qdrant.Driver)(nil)
		})
	})
})
