package store_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yoppiari/tumor-registry-sub011/store"
)

var _ = Describe("Pagination", func() {
	It("defaults to the first ten records", func() {
		page := store.DefaultPagination()
		Expect(page.Offset).To(Equal(0))
		Expect(page.Limit).To(Equal(10))
	})
})

var _ = Describe("Sort", func() {
	It("maps direction to a mongo sort order", func() {
		ascending := store.Sort{Attribute: "createdAt", Ascending: true}
		Expect(ascending.Order()).To(Equal(1))

		descending := store.Sort{Attribute: "createdAt", Ascending: false}
		Expect(descending.Order()).To(Equal(-1))
	})
})

var _ = Describe("ObjectIDSFromStringArray", func() {
	It("keeps valid ids and drops malformed ones", func() {
		id := primitive.NewObjectID()
		ids := store.ObjectIDSFromStringArray([]string{id.Hex(), "not-an-id"})
		Expect(ids).To(Equal([]primitive.ObjectID{id}))
	})
})
