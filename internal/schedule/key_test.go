package schedule_test

import (
	apperrors "github.com/frahmantamala/roster-management/internal"
	"github.com/frahmantamala/roster-management/internal/core/roster"
	"github.com/frahmantamala/roster-management/internal/schedule"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Slot keys", func() {
	DescribeTable("round trip",
		func(dept roster.Department, day, label string) {
			key := schedule.BuildKey(dept, day, label)
			parsed, ok := schedule.ParseKey(key)
			Expect(ok).To(BeTrue())
			Expect(parsed.Department).To(Equal(dept))
			Expect(parsed.Day).To(Equal(day))
			Expect(parsed.Label).To(Equal(label))
			Expect(parsed.String()).To(Equal(key))
		},
		Entry("simple range", roster.Kitchen, "Ponedeljak", "8-16"),
		Entry("range past midnight", roster.Pool, "Nedelja", "16-00"),
		Entry("split shift", roster.Kitchen, "Sreda", "10-14 i 18-22"),
		Entry("position id with hyphen", roster.Restaurant, "Petak", "morning-waiter"),
		Entry("label without hyphen", roster.Kitchen, "Četvrtak", "Dodatno"),
	)

	It("builds the documented layout", func() {
		Expect(schedule.BuildKey(roster.Kitchen, "Ponedeljak", "10-14 i 18-22")).
			To(Equal("kitchen-Ponedeljak-10-14 i 18-22"))
	})

	DescribeTable("rejects degenerate keys",
		func(key string) {
			_, ok := schedule.ParseKey(key)
			Expect(ok).To(BeFalse())
		},
		Entry("empty", ""),
		Entry("two parts", "kitchen-Ponedeljak"),
		Entry("blank label", "kitchen-Ponedeljak- "),
		Entry("empty label", "kitchen-Ponedeljak-"),
	)

	It("reads position hours from the catalog", func() {
		k, _ := schedule.ParseKey("restaurant-Utorak-split-waiter")
		Expect(k.HoursLabel()).To(Equal("10-14 i 18-22"))
		Expect(k.Kind()).To(Equal(roster.SlotKindNamedPosition))

		k, _ = schedule.ParseKey("kitchen-Utorak-14-22")
		Expect(k.HoursLabel()).To(Equal("14-22"))
		Expect(k.Kind()).To(Equal(roster.SlotKindTimeRange))
	})

	Describe("ResolveSlot", func() {
		layout := roster.Layout{roster.Restaurant: roster.SlotKindNamedPosition}

		It("accepts a time range for a time-range department", func() {
			slot, err := schedule.ResolveSlot(layout, roster.Kitchen, "Ponedeljak", " 8-16 ")
			Expect(err).NotTo(HaveOccurred())
			Expect(slot.String()).To(Equal("kitchen-Ponedeljak-8-16"))
			Expect(slot.Kind).To(Equal(roster.SlotKindTimeRange))
			Expect(slot.Position).To(BeNil())
		})

		It("accepts a known position for a position department", func() {
			slot, err := schedule.ResolveSlot(layout, roster.Restaurant, "Ponedeljak", "morning-bartender")
			Expect(err).NotTo(HaveOccurred())
			Expect(slot.Position).NotTo(BeNil())
			Expect(slot.Position.Name).To(Equal("Šanker 1"))
		})

		It("rejects labels of the wrong kind", func() {
			_, err := schedule.ResolveSlot(layout, roster.Restaurant, "Ponedeljak", "8-16")
			Expect(codeOf(err)).To(Equal(apperrors.ErrCodeSlotKindMismatch))

			_, err = schedule.ResolveSlot(layout, roster.Kitchen, "Ponedeljak", "morning-waiter")
			Expect(codeOf(err)).To(Equal(apperrors.ErrCodeSlotKindMismatch))
		})

		It("rejects unknown vocabulary", func() {
			_, err := schedule.ResolveSlot(layout, "garden", "Ponedeljak", "8-16")
			Expect(codeOf(err)).To(Equal(apperrors.ErrCodeInvalidDepartment))

			_, err = schedule.ResolveSlot(layout, roster.Kitchen, "Monday", "8-16")
			Expect(codeOf(err)).To(Equal(apperrors.ErrCodeInvalidDay))

			_, err = schedule.ResolveSlot(layout, roster.Kitchen, "Ponedeljak", "  ")
			Expect(codeOf(err)).To(Equal(apperrors.ErrCodeInvalidShift))

			_, err = schedule.ResolveKey(layout, "kitchen-Ponedeljak")
			Expect(codeOf(err)).To(Equal(apperrors.ErrCodeInvalidSlotKey))
		})
	})
})
