package main

import (
	_ "embed"
	"log"
	"net/http"
	"time"
)

//go:embed articles.json
var articlesData []byte

//go:embed pages.json
var pagesData []byte

func serve(name string, data []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Simulate network latency (50-200ms)
		time.Sleep(time.Duration(50+time.Now().UnixNano()%150) * time.Millisecond)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(data); err != nil {
			log.Printf("[Mock CMS] %s write error: %v", name, err)
		}

		log.Printf("[Mock CMS] %s %s - 200 OK", r.Method, r.URL.Path)
	}
}

func main() {
	http.HandleFunc("/api/articles", serve("articles", articlesData))
	http.HandleFunc("/api/pages", serve("pages", pagesData))

	http.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"status":"healthy"}`)); err != nil {
			log.Printf("[Mock CMS] Health write error: %v", err)
		}
	})

	log.Println("Mock CMS running on :8081")
	server := &http.Server{
		Addr:         ":8081",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.Fatal(server.ListenAndServe())
}
