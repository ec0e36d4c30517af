package scanning

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/ghttp"
)

func tinyPNG() []byte {
	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	if err := png.Encode(&buf, img); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

func tinyJPEG() []byte {
	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

var _ = Describe("Local", func() {
	When("scanning a plain text receipt", func() {
		It("returns the text as-is", func() {
			scanner := NewLocal(nil)
			text, err := scanner.ScanReceipt([]byte("KIWI\nSum 42,00"), "text/plain")
			Expect(err).NotTo(HaveOccurred())
			Expect(text).To(Equal("KIWI\nSum 42,00"))
		})
	})

	When("the content type is missing", func() {
		It("treats the upload as text", func() {
			scanner := NewLocal(nil)
			text, err := scanner.ScanReceipt([]byte("Sum 42,00"), "")
			Expect(err).NotTo(HaveOccurred())
			Expect(text).To(Equal("Sum 42,00"))
		})
	})

	When("scanning an image without an OCR engine", func() {
		It("returns an error", func() {
			scanner := NewLocal(nil)
			_, err := scanner.ScanReceipt(tinyPNG(), "image/png")
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("OCR engine"))
		})
	})

	When("scanning an image with an OCR engine", func() {
		var ghttpServer *ghttp.Server

		BeforeEach(func() {
			ghttpServer = ghttp.NewServer()
			ghttpServer.AppendHandlers(ghttp.CombineHandlers(
				ghttp.VerifyRequest("POST", "/api/ocr"),
				ghttp.RespondWithJSONEncoded(http.StatusOK, ocrResponse{Text: "KIWI 247\nTotalt 89,50"}),
			))
		})

		AfterEach(func() {
			ghttpServer.Close()
		})

		It("returns the recognized text", func() {
			ocr, err := NewRemoteOCR(ghttpServer.URL(), "nor")
			Expect(err).NotTo(HaveOccurred())
			scanner := NewLocal(ocr)
			text, err := scanner.ScanReceipt(tinyPNG(), "image/png")
			Expect(err).NotTo(HaveOccurred())
			Expect(text).To(Equal("KIWI 247\nTotalt 89,50"))
		})
	})

	When("scanning a JPEG photo with an OCR engine", func() {
		var ghttpServer *ghttp.Server

		BeforeEach(func() {
			ghttpServer = ghttp.NewServer()
			ghttpServer.AppendHandlers(ghttp.CombineHandlers(
				ghttp.VerifyRequest("POST", "/api/ocr"),
				ghttp.RespondWithJSONEncoded(http.StatusOK, ocrResponse{Text: "REMA 1000\nSum 120,00"}),
			))
		})

		AfterEach(func() {
			ghttpServer.Close()
		})

		It("converts it and returns the recognized text", func() {
			ocr, err := NewRemoteOCR(ghttpServer.URL(), "nor")
			Expect(err).NotTo(HaveOccurred())
			scanner := NewLocal(ocr)
			text, err := scanner.ScanReceipt(tinyJPEG(), "image/jpeg")
			Expect(err).NotTo(HaveOccurred())
			Expect(text).To(Equal("REMA 1000\nSum 120,00"))
		})
	})

	When("the upload claims to be a PDF but is not", func() {
		It("returns an error", func() {
			scanner := NewLocal(nil)
			_, err := scanner.ScanReceipt([]byte("not a pdf"), "application/pdf")
			Expect(err).To(HaveOccurred())
		})
	})

	When("closing the scanner", func() {
		It("succeeds", func() {
			Expect(NewLocal(nil).Close()).To(Succeed())
		})
	})
})
