package upload

import "io"

// Progress is a point-in-time report of a running transfer.
type Progress struct {
	Loaded  int64
	Total   int64
	Percent int
}

// progressReader counts bytes as the transport drains the request body and
// reports each chunk.
type progressReader struct {
	reader  io.Reader
	total   int64
	loaded  int64
	onChunk func(loaded, total int64)
}

func (pr *progressReader) Read(p []byte) (int, error) {
	n, err := pr.reader.Read(p)
	if n > 0 {
		pr.loaded += int64(n)
		if pr.onChunk != nil {
			pr.onChunk(pr.loaded, pr.total)
		}
	}
	return n, err
}

// percent clamps to 100: the source can grow between stat and transfer, and
// a report beyond 100% is a lie either way.
func percent(loaded, total int64) int {
	if total <= 0 {
		return 0
	}
	if loaded >= total {
		return 100
	}
	return int(float64(loaded) / float64(total) * 100)
}
