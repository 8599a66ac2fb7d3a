package gateway_test

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"

	"github.com/jonwraymond/pcokit/accessor"
	"github.com/jonwraymond/pcokit/gateway"
	"github.com/jonwraymond/pcokit/pco"
	"github.com/jonwraymond/pcokit/query"
)

func ExampleNew() {
	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"data":[{"id":"st1","type":"ServiceType","attributes":{"name":"Sunday"}}]}`)
	}))
	defer remote.Close()

	client, _ := pco.New(pco.Config{AppID: "app", Secret: "secret", BaseURL: remote.URL})
	srv, _ := gateway.New(gateway.Config{
		Accessors: accessor.New(client, query.NewClient(nil)),
	})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/service-types", nil))
	fmt.Println(rec.Code)
	fmt.Print(rec.Body.String())
	// Output:
	// 200
	// {"data":[{"id":"st1","type":"ServiceType","attributes":{"name":"Sunday"}}]}
}
