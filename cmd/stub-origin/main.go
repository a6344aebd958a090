// Stub origin server implementing the endpoint surface the harness consumes,
// for running the benchmark locally behind a caching proxy.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	portFlag      int
	largeSizeFlag int
	maxAgeFlag    int
)

func init() {
	flag.IntVar(&portFlag, "port", 3000, "Port to listen on")
	flag.IntVar(&largeSizeFlag, "large-size", 10, "Size of the large object in MB")
	flag.IntVar(&maxAgeFlag, "max-age", 60, "Cache-Control max-age for the large object in seconds")
}

type user struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// userList is the in-memory user store.
// The server handles requests concurrently, hence the mutex.
type userList struct {
	mu    sync.Mutex
	users []user
}

func (l *userList) add(u user) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.users = append(l.users, u)
}

func (l *userList) all() []user {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]user, len(l.users))
	copy(out, l.users)
	return out
}

func (l *userList) remove(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, u := range l.users {
		if u.ID == id {
			l.users = append(l.users[:i], l.users[i+1:]...)
			return true
		}
	}
	return false
}

func main() {
	flag.Parse()
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})

	large := bytes.Repeat([]byte("0123456789abcdef"), largeSizeFlag*1024*1024/16)
	users := &userList{}

	r := chi.NewRouter()

	r.Get("/test", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Server is running"))
	})

	r.Get("/large", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", fmt.Sprintf("max-age=%d", maxAgeFlag))
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write(large)
	})

	r.Post("/users", func(w http.ResponseWriter, r *http.Request) {
		var u user
		if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
			http.Error(w, "invalid user", http.StatusBadRequest)
			return
		}
		users.add(u)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(u)
	})

	r.Get("/users", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(users.all())
	})

	r.Delete("/users/{id}", func(w http.ResponseWriter, r *http.Request) {
		if users.remove(chi.URLParam(r, "id")) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		http.Error(w, "not found", http.StatusNotFound)
	})

	log.Info().Msgf("Stub origin listening on :%d (large object %dMB)", portFlag, largeSizeFlag)
	err := http.ListenAndServe(fmt.Sprintf(":%d", portFlag), r)
	if err != nil {
		panic(err)
	}
}
