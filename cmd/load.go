package main

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/adfharrison1/go-docstore/pkg/client"
	"github.com/adfharrison1/go-docstore/pkg/domain"
)

const (
	loadCollection = "load_users"
	loadIndex      = "load_users_by_email"
)

// generateRandomName generates a random 6-letter name
func generateRandomName(rng *rand.Rand) string {
	const letters = "abcdefghijklmnopqrstuvwxyz"
	name := make([]byte, 6)
	for i := range name {
		name[i] = letters[rng.Intn(len(letters))]
	}
	// Capitalize first letter
	name[0] = name[0] - 32
	return string(name)
}

// loadStats counts the outcome of a load run
type loadStats struct {
	inserted  int
	retrieved int
	errors    int
}

func newLoadCmd() *cobra.Command {
	var users int
	cmd := &cobra.Command{
		Use:   "load",
		Short: "Insert random users through the client, then read each back by email",
		RunE: func(cmd *cobra.Command, args []string) error {
			if users <= 0 {
				return errors.New("number of users must be greater than 0")
			}
			c, err := newClient()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			if _, err := c.CreateCollection(ctx, loadCollection); err != nil && !errors.Is(err, domain.ErrAlreadyExists) {
				return err
			}
			if _, err := c.CreateIndex(ctx, loadCollection, loadIndex, client.WithTerms("data.email"), client.WithUnique(true)); err != nil && !errors.Is(err, domain.ErrAlreadyExists) {
				return err
			}

			rng := rand.New(rand.NewSource(time.Now().UnixNano()))
			fmt.Printf("Starting load test: inserting %d users\n", users)

			var stats loadStats
			emails := make([]string, 0, users)
			startTime := time.Now()
			reportInterval := max(1, users/10)

			for i := 0; i < users; i++ {
				name := generateRandomName(rng)
				email := fmt.Sprintf("%s.%d.%d@example.com", strings.ToLower(name), startTime.UnixNano(), i)
				_, err := c.CreateDocument(ctx, loadCollection, map[string]interface{}{
					"name":  name,
					"age":   rng.Intn(82) + 18,
					"email": email,
				})
				if err != nil {
					stats.errors++
					fmt.Printf("Error inserting user %d (%s): %v\n", i+1, name, err)
				} else {
					stats.inserted++
					emails = append(emails, email)
				}

				if (i+1)%reportInterval == 0 || i == users-1 {
					rate := float64(i+1) / time.Since(startTime).Seconds()
					fmt.Printf("Progress: %d/%d users (%.1f%%) - Rate: %.1f users/sec - Errors: %d\n",
						i+1, users, float64(i+1)/float64(users)*100, rate, stats.errors)
				}
			}
			insertTime := time.Since(startTime)

			readStart := time.Now()
			for _, email := range emails {
				doc, err := c.RetrieveDocument(ctx, loadIndex, email)
				switch {
				case err != nil:
					stats.errors++
					fmt.Printf("Error retrieving %s: %v\n", email, err)
				case doc == nil:
					stats.errors++
					fmt.Printf("User %s was inserted but not found\n", email)
				default:
					stats.retrieved++
				}
			}
			readTime := time.Since(readStart)

			fmt.Println("\n" + strings.Repeat("=", 60))
			fmt.Println("LOAD TEST COMPLETE")
			fmt.Println(strings.Repeat("=", 60))
			fmt.Printf("Users attempted:     %d\n", users)
			fmt.Printf("Successful inserts:  %d\n", stats.inserted)
			fmt.Printf("Successful reads:    %d\n", stats.retrieved)
			fmt.Printf("Errors:              %d\n", stats.errors)
			fmt.Printf("Insert time:         %v (%.2f users/sec)\n", insertTime, float64(users)/insertTime.Seconds())
			if len(emails) > 0 {
				fmt.Printf("Read time:           %v (%.2f users/sec)\n", readTime, float64(len(emails))/readTime.Seconds())
			}

			if stats.errors > 0 {
				fmt.Fprintf(os.Stderr, "%d errors occurred during the load test\n", stats.errors)
				return fmt.Errorf("load test failed with %d errors", stats.errors)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&users, "users", "n", 1000, "number of users to insert")
	return cmd
}
