package auth

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestAuth(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Auth Suite")
}

var _ = Describe("Tokens", func() {
	It("round-trips the user id", func() {
		token, err := GenerateToken(42)
		Expect(err).NotTo(HaveOccurred())
		Expect(token).NotTo(BeEmpty())

		userID, err := ValidateToken(token)
		Expect(err).NotTo(HaveOccurred())
		Expect(userID).To(Equal(int64(42)))
	})

	It("rejects garbage", func() {
		_, err := ValidateToken("not.a.token")
		Expect(err).To(HaveOccurred())
	})

	It("rejects a tampered token", func() {
		token, err := GenerateToken(42)
		Expect(err).NotTo(HaveOccurred())

		tampered := token[:len(token)-2] + "xx"
		_, err = ValidateToken(tampered)
		Expect(err).To(HaveOccurred())
	})
})
