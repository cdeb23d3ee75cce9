package results

import (
	"encoding/json"
	"os"
	"sync"

	log "github.com/sirupsen/logrus"
)

var (
	resultChan        chan *ResultEnvelope
	writerOnce        sync.Once
	writerWG          sync.WaitGroup
	resultPath        string
	fallbackWriteOnce sync.Once
)

// InitResultWriter sets up an async JSONL writer (single goroutine) with a
// buffered channel. Call CloseResultWriter to flush before the process exits.
func InitResultWriter(path string) {
	resultPath = path
	writerOnce.Do(func() {
		log.Infof("results file (append): %s", resultPath)
		resultChan = make(chan *ResultEnvelope, 128)
		writerWG.Add(1)
		go func() {
			defer writerWG.Done()
			f, err := os.OpenFile(resultPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
			if err != nil {
				log.Errorf("open results file: %v", err)
				return
			}
			defer f.Close()
			enc := json.NewEncoder(f)
			for r := range resultChan {
				if r == nil {
					continue
				}
				if err := enc.Encode(r); err != nil {
					log.Errorf("encode result: %v", err)
				}
			}
		}()
	})
}

// WriteResult hands one envelope to the async writer, or appends it
// synchronously when the writer was never initialized.
func WriteResult(env *ResultEnvelope) {
	if resultChan != nil {
		resultChan <- env
		return
	}
	path := resultPath
	if path == "" {
		path = DefaultResultsFile
	}
	fallbackWriteOnce.Do(func() { log.Infof("results file fallback (append): %s", path) })
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.Errorf("write result: %v", err)
		return
	}
	defer f.Close()
	b, _ := json.Marshal(env)
	f.Write(append(b, '\n'))
}

// CloseResultWriter flushes and stops the async writer.
func CloseResultWriter() {
	if resultChan != nil {
		close(resultChan)
		writerWG.Wait()
	}
}
