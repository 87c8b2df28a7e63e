package middleware

import (
	"net/http"

	"github.com/PLAYZONE-UA/zlota-raczka/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// MultipartOverhead is added to the photo budget of the booking form
const MultipartOverhead = 1 << 20

// UploadLimit is the largest body the booking form may send
func UploadLimit(maxPhotos int, maxPhotoSize int64) int64 {
	return int64(maxPhotos)*maxPhotoSize + MultipartOverhead
}

// BodyLimit returns a middleware that limits request body size
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			dto.Abort(c, http.StatusRequestEntityTooLarge, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeRequestTooLarge,
				"Request body exceeds maximum allowed size",
				GetRequestID(c),
			))
			return
		}

		// chunked bodies are cut off while reading
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
