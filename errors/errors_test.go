package errors_test

import (
	stderrors "errors"
	"fmt"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/yoppiari/tumor-registry-sub011/errors"
)

var _ = Describe("HttpError", func() {
	It("carries a status code per sentinel", func() {
		Expect(errors.NotFound.Code).To(Equal(http.StatusNotFound))
		Expect(errors.BadRequest.Code).To(Equal(http.StatusBadRequest))
		Expect(errors.Conflict.Code).To(Equal(http.StatusConflict))
		Expect(errors.Duplicate.Code).To(Equal(http.StatusConflict))
	})

	It("is matchable through wrapped domain errors", func() {
		wrapped := fmt.Errorf("visit %w", errors.NotFound)

		e := errors.HttpError{}
		Expect(stderrors.As(wrapped, &e)).To(BeTrue())
		Expect(e.Code).To(Equal(http.StatusNotFound))
		Expect(wrapped).To(MatchError(errors.NotFound))
	})
})
