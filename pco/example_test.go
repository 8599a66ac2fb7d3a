package pco_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"

	"github.com/jonwraymond/pcokit/pco"
)

func ExampleClient_People() {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"data":[{"id":"1","type":"Person","attributes":{"first_name":"Ada","last_name":"Lovelace"}}]}`)
	}))
	defer srv.Close()

	client, err := pco.New(pco.Config{AppID: "app", Secret: "secret", BaseURL: srv.URL})
	if err != nil {
		fmt.Println(err)
		return
	}
	people, err := client.People(context.Background(), "ada")
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, p := range people {
		fmt.Println(p.ID, p.Attributes.DisplayName())
	}
	// Output: 1 Ada Lovelace
}

func ExampleIsNotFound() {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	client, _ := pco.New(pco.Config{AppID: "app", Secret: "secret", BaseURL: srv.URL})
	_, err := client.Person(context.Background(), "42")
	fmt.Println(err)
	fmt.Println(pco.IsNotFound(err))
	// Output:
	// pco: remote API error: Not Found
	// true
}
