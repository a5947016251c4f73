package journal

// NoopRecorder discards everything. Used when no journal path is configured.
type NoopRecorder struct{}

func (NoopRecorder) Record(Entry) error                    { return nil }
func (NoopRecorder) Recent(string, int) ([]Entry, error) { return nil, nil }
func (NoopRecorder) Close() error                          { return nil }
