package proxybench

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
)

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// createUsers posts synthetic user records to the backend, one sample per
// attempt. Only a 201 with a decodable body counts as created.
func (h *Harness) createUsers() []User {
	log := h.log.With().Str("scenario", "user-lifecycle").Logger()
	log.Info().Int("users", h.cfg.UserCount).Msg("Creating test users")

	created := make([]User, 0, h.cfg.UserCount)
	for i := 1; i <= h.cfg.UserCount; i++ {
		payload, err := json.Marshal(User{
			ID:    strconv.Itoa(i),
			Name:  fmt.Sprintf("Test User %d", i),
			Email: fmt.Sprintf("user%d@example.com", i),
		})
		if err != nil {
			log.Error().Err(err).Msg("Could not marshal user")
			continue
		}

		out := h.client.do(http.MethodPost, h.cfg.BackendURL+"/users", "", "application/json", payload, h.cfg.RequestTimeout)
		h.store.Append(OpCreateUser, out.elapsed, out.statusCode, false)

		switch {
		case !out.ok():
			log.Error().Err(out.err).Int("user", i).Msg("Create request failed")
		case out.statusCode != http.StatusCreated:
			log.Error().Int("user", i).Int("status", out.statusCode).Msg("User not created")
		default:
			var u User
			if err := json.Unmarshal(out.body, &u); err != nil {
				log.Error().Err(err).Int("user", i).Msg("Malformed user in response")
			} else {
				created = append(created, u)
				log.Info().Str("id", u.ID).Dur("elapsed", out.elapsed).Msg("Created user")
			}
		}
		h.pause()
	}
	return created
}

// listUsers retrieves all users through the proxy, recording one sample.
func (h *Harness) listUsers() []User {
	log := h.log.With().Str("scenario", "user-lifecycle").Logger()
	log.Info().Msg("Retrieving users through proxy")

	out := h.client.get(h.cfg.ProxyURL+"/users", h.cfg.ProxyHost, h.cfg.RequestTimeout)
	h.store.Append(OpGetUsers, out.elapsed, out.statusCode, false)

	switch {
	case !out.ok():
		log.Error().Err(out.err).Msg("List request failed")
		return nil
	case out.statusCode != http.StatusOK:
		log.Error().Int("status", out.statusCode).Msg("Failed to retrieve users")
		return nil
	}

	var users []User
	if err := json.Unmarshal(out.body, &users); err != nil {
		log.Error().Err(err).Msg("Malformed user list")
		return nil
	}
	log.Info().Int("count", len(users)).Dur("elapsed", out.elapsed).Msg("Retrieved users")
	return users
}

// deleteUsers removes the created users from the backend, one sample per
// attempt. Deletion failures are logged, never fatal.
func (h *Harness) deleteUsers(users []User) {
	log := h.log.With().Str("scenario", "user-lifecycle").Logger()
	log.Info().Int("users", len(users)).Msg("Deleting test users")

	for _, u := range users {
		out := h.client.do(http.MethodDelete, h.cfg.BackendURL+"/users/"+u.ID, "", "", nil, h.cfg.RequestTimeout)
		h.store.Append(OpDeleteUser, out.elapsed, out.statusCode, false)

		switch {
		case !out.ok():
			log.Error().Err(out.err).Str("id", u.ID).Msg("Delete request failed")
		case out.statusCode < 200 || out.statusCode > 299:
			log.Error().Str("id", u.ID).Int("status", out.statusCode).Msg("User not deleted")
		default:
			log.Info().Str("id", u.ID).Dur("elapsed", out.elapsed).Msg("Deleted user")
		}
		h.pause()
	}
}
