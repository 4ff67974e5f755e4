package formkit

import "io"

// ProgressFunc is called as an encoded body is read, with the bytes produced
// so far and the total body size
type ProgressFunc func(bytesTransferred int64, totalBytes int64)

// defaultReportingStep is how many bytes pass between two progress reports
const defaultReportingStep = 32 * 1024

// progressReader is a reader that reports progress
type progressReader struct {
	reader        io.Reader
	progress      ProgressFunc
	size          int64
	bytesRead     int64
	lastReported  int64
	reportingStep int64
}

func newProgressReader(r io.Reader, fn ProgressFunc, size int64) *progressReader {
	return &progressReader{
		reader:        r,
		progress:      fn,
		size:          size,
		reportingStep: defaultReportingStep,
	}
}

func (r *progressReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	if n > 0 {
		r.bytesRead += int64(n)
	}

	// Report when a step has passed, or once at the end
	if r.bytesRead > r.lastReported &&
		(r.bytesRead-r.lastReported >= r.reportingStep || err == io.EOF || r.bytesRead == r.size) {
		r.progress(r.bytesRead, r.size)
		r.lastReported = r.bytesRead
	}
	return n, err
}
