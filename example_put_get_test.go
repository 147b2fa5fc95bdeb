package carevault_test

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	carevault "github.com/carevault/carevault.go"
	"github.com/carevault/carevault.go/internal/fakevault"
	"github.com/carevault/carevault.go/pkg/connection"
	"github.com/carevault/carevault.go/pkg/things"
)

// PutThings stores typed items in a record and GetThings reads them
// back, decoded to their concrete types.
func ExampleClient_PutThings() {
	srv := fakevault.New()
	defer srv.Close()

	client, err := carevault.FromEndpointURLString(
		context.Background(),
		srv.URL(),
		uuid.New(),
		&connection.OfflineCredential{PersonID: "person-1", SharedSecret: "s3cret"},
	)
	if err != nil {
		panic(err)
	}
	defer client.Close(context.Background())

	recordID := uuid.New()

	weight, err := things.NewWeight(71.3)
	if err != nil {
		panic(err)
	}
	if _, err := client.PutThings(context.Background(), recordID, weight); err != nil {
		panic(err)
	}

	items, err := client.GetThings(context.Background(), recordID, things.TypeIDWeight)
	if err != nil {
		panic(err)
	}
	for _, item := range items {
		w := item.(*things.Weight)
		fmt.Printf("weight: %v kg\n", w.Value().Kilograms())
	}

	// Output:
	// weight: 71.3 kg
}
