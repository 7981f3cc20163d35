package middlewares

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
)

var gzipWriters = sync.Pool{
	New: func() any {
		return gzip.NewWriter(io.Discard)
	},
}

// gzipWriter обертка над gin.ResponseWriter для сжатия ответов в формате gzip.
// Сжатие включается при первой записи тела, так что ответы без тела (204, пустой 307) не трогаются.
type gzipWriter struct {
	gin.ResponseWriter
	writer *gzip.Writer
}

// Write реализует интерфейс io.Writer.
func (g *gzipWriter) Write(data []byte) (int, error) {
	if g.writer == nil {
		g.Header().Del("Content-Length")
		g.Header().Set("Content-Encoding", "gzip")
		g.writer = gzipWriters.Get().(*gzip.Writer) //nolint:errcheck
		g.writer.Reset(g.ResponseWriter)
	}
	return g.writer.Write(data) //nolint:wrapcheck
}

func (g *gzipWriter) WriteString(s string) (int, error) {
	return g.Write([]byte(s))
}

func (g *gzipWriter) close() error {
	if g.writer == nil {
		return nil
	}
	defer gzipWriters.Put(g.writer)
	return g.writer.Close() //nolint:wrapcheck
}

// GzipMiddleware распаковывает gzip тела запросов и сжимает ответы клиентам,
// которые прислали Accept-Encoding: gzip.
//
// Для запросов:
//   - Обрабатывает только POST, PUT, PATCH запросы
//   - Битое сжатое тело -> 400
//
// Возвращает:
//   - gin.HandlerFunc: middleware функция
func GzipMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if !readGzip(ctx) {
			return
		}
		writeGzip(ctx)
	}
}

// writeGzip настраивает сжатие ответа в формате gzip.
func writeGzip(ctx *gin.Context) {
	if !strings.Contains(ctx.Request.Header.Get("Accept-Encoding"), "gzip") {
		ctx.Next()
		return
	}

	ctx.Header("Vary", "Accept-Encoding")

	gzWriter := &gzipWriter{ResponseWriter: ctx.Writer}
	ctx.Writer = gzWriter
	defer func() {
		if closeErr := gzWriter.close(); closeErr != nil {
			_ = ctx.Error(fmt.Errorf("close gzip writer: %w", closeErr))
		}
	}()

	ctx.Next()
}

// readGzip распаковывает тело запроса если оно сжато. Возвращает false, если запрос прерван.
func readGzip(ctx *gin.Context) bool {
	if !slices.Contains([]string{http.MethodPost, http.MethodPut, http.MethodPatch}, ctx.Request.Method) {
		return true
	}
	if !strings.Contains(ctx.Request.Header.Get("Content-Encoding"), "gzip") {
		return true
	}

	gzReader, gzErr := gzip.NewReader(ctx.Request.Body)
	if gzErr != nil {
		_ = ctx.Error(fmt.Errorf("read gzip: %w", gzErr))
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid gzip body"})
		return false
	}
	defer func() {
		if closeErr := gzReader.Close(); closeErr != nil {
			_ = ctx.Error(fmt.Errorf("close gzip reader: %w", closeErr))
		}
	}()

	bodyBytes, err := io.ReadAll(gzReader)
	if err != nil {
		_ = ctx.Error(fmt.Errorf("read gzip: %w", err))
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid gzip body"})
		return false
	}

	ctx.Request.Body = io.NopCloser(bytes.NewReader(bodyBytes))
	ctx.Request.Header.Del("Content-Encoding")
	ctx.Request.ContentLength = int64(len(bodyBytes))
	return true
}
