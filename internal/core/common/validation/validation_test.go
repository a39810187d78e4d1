package validation_test

import (
	"testing"

	"github.com/shopspring/decimal"

	errors "github.com/frahmantamala/roster-management/internal"
	"github.com/frahmantamala/roster-management/internal/core/common/validation"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestValidation(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Validation Suite")
}

func details(err *errors.AppError) []errors.ValidationError {
	return err.Details.(errors.ValidationErrors).Errors
}

type sampleDTO struct {
	Name       string `validate:"required,max=5"`
	Department string `validate:"oneof=kitchen pool"`
}

var _ = Describe("Validation", func() {
	Describe("ParseAmount", func() {
		It("should accept dot and comma decimals", func() {
			d, err := validation.ParseAmount("total", " 1500,50 ")
			Expect(err).To(BeNil())
			Expect(d.String()).To(Equal("1500.5"))
		})

		It("should reject malformed input", func() {
			_, err := validation.ParseAmount("total", "12abc")
			Expect(err).NotTo(BeNil())
			Expect(details(err)[0].Code).To(Equal(string(errors.ErrCodeInvalidAmount)))

			_, err = validation.ParseAmount("bank", "")
			Expect(err).NotTo(BeNil())
			Expect(details(err)[0].Message).To(Equal("bank is required"))
		})
	})

	Describe("ValidateSalarySplit", func() {
		It("should accept a valid split", func() {
			Expect(validation.ValidateSalarySplit(decimal.NewFromInt(100), decimal.NewFromInt(100))).To(BeNil())
			Expect(validation.ValidateSalarySplit(decimal.NewFromInt(100), decimal.Zero)).To(BeNil())
		})

		It("should reject a non-positive total", func() {
			err := validation.ValidateSalarySplit(decimal.Zero, decimal.Zero)
			Expect(err).NotTo(BeNil())
			Expect(details(err)[0].Field).To(Equal("total"))
		})

		It("should reject bank above total", func() {
			err := validation.ValidateSalarySplit(decimal.NewFromInt(100), decimal.NewFromInt(101))
			Expect(err).NotTo(BeNil())
			Expect(details(err)).To(HaveLen(1))
			Expect(details(err)[0].Code).To(Equal(string(errors.ErrCodeBankExceedsTotal)))
			Expect(err.StatusCode).To(Equal(400))
		})

		It("should reject a negative bank", func() {
			err := validation.ValidateSalarySplit(decimal.NewFromInt(100), decimal.NewFromInt(-1))
			Expect(err).NotTo(BeNil())
			Expect(details(err)[0].Message).To(Equal("bank cannot be negative"))
		})
	})

	Describe("builder", func() {
		It("should report one error per field", func() {
			v := validation.NewValidator()
			v.Field("name", "   ").Required().MaxLength(2)
			v.Field("department", "bar").OneOf([]string{"kitchen", "pool"}, errors.ErrCodeInvalidDepartment)
			err := v.Validate()
			Expect(err).NotTo(BeNil())
			Expect(details(err)).To(HaveLen(2))
			Expect(details(err)[1].Code).To(Equal(string(errors.ErrCodeInvalidDepartment)))
		})
	})

	Describe("ValidateStruct", func() {
		It("should translate struct tag failures", func() {
			err := validation.ValidateStruct(sampleDTO{Name: "", Department: "bar"})
			Expect(err).NotTo(BeNil())
			fields := []string{}
			for _, d := range details(err) {
				fields = append(fields, d.Field)
			}
			Expect(fields).To(ConsistOf("name", "department"))
			Expect(err.Error()).To(Equal("name is required"))
		})

		It("should pass valid structs", func() {
			Expect(validation.ValidateStruct(sampleDTO{Name: "Ana", Department: "pool"})).To(BeNil())
		})
	})
})
