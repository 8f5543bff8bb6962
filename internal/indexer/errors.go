package indexer

import "errors"

// ErrIngestion wraps every ingestion failure other than an unsupported file type.
var ErrIngestion = errors.New("ingestion failed")
