package woo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// maxPerPage es el tope de per_page que acepta el API de WooCommerce.
const maxPerPage = 100

// APIError es una respuesta HTTP no exitosa del API remoto.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api remoto HTTP %d: %s", e.Status, e.Message)
}

// Client es el cliente HTTP paginado del API de WooCommerce. Autentica con
// consumer key/secret en el query string (el método que Woo soporta sobre
// HTTPS sin OAuth) y lee los totales de paginación de los headers
// X-WP-Total / X-WP-TotalPages.
type Client struct {
	session    *Session
	httpClient *http.Client
}

// NewClient construye el cliente.
func NewClient(session *Session) *Client {
	return &Client{
		session: session,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// getPage ejecuta GET sobre un recurso paginado y devuelve el cuerpo crudo
// junto con el total de páginas reportado por el servidor.
func (c *Client) getPage(ctx context.Context, resource string, query url.Values, page int) ([]byte, int, error) {
	baseURL, key, secret := c.session.credentials()

	q := url.Values{}
	for k, vs := range query {
		q[k] = vs
	}
	q.Set("consumer_key", key)
	q.Set("consumer_secret", secret)
	q.Set("per_page", strconv.Itoa(maxPerPage))
	q.Set("page", strconv.Itoa(page))

	endpoint := fmt.Sprintf("%s/wp-json/wc/v3/%s?%s", baseURL, resource, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("creando request %s: %w", resource, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("llamando %s página %d: %w", resource, page, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return nil, 0, fmt.Errorf("leyendo respuesta de %s: %w", resource, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, 0, &APIError{Status: resp.StatusCode, Message: truncate(string(body), 200)}
	}

	totalPages, _ := strconv.Atoi(resp.Header.Get("X-WP-TotalPages"))
	if totalPages < 1 {
		totalPages = 1
	}
	return body, totalPages, nil
}

// OrdersPage descarga una página de pedidos del rango [after, before] (RFC3339).
func (c *Client) OrdersPage(ctx context.Context, after, before time.Time, page int) ([]wooOrder, int, error) {
	q := url.Values{}
	q.Set("after", after.UTC().Format(time.RFC3339))
	q.Set("before", before.UTC().Format(time.RFC3339))
	q.Set("orderby", "date")
	q.Set("order", "asc")

	body, totalPages, err := c.getPage(ctx, "orders", q, page)
	if err != nil {
		return nil, 0, err
	}
	var out []wooOrder
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, 0, fmt.Errorf("deserializando pedidos página %d: %w", page, err)
	}
	return out, totalPages, nil
}

// ProductsPage descarga una página del catálogo de productos.
func (c *Client) ProductsPage(ctx context.Context, page int) ([]wooProduct, int, error) {
	body, totalPages, err := c.getPage(ctx, "products", url.Values{}, page)
	if err != nil {
		return nil, 0, err
	}
	var out []wooProduct
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, 0, fmt.Errorf("deserializando productos página %d: %w", page, err)
	}
	return out, totalPages, nil
}

// VariationsPage descarga una página de variaciones de un producto variable.
func (c *Client) VariationsPage(ctx context.Context, productID int64, page int) ([]wooVariation, int, error) {
	resource := fmt.Sprintf("products/%d/variations", productID)
	body, totalPages, err := c.getPage(ctx, resource, url.Values{}, page)
	if err != nil {
		return nil, 0, err
	}
	var out []wooVariation
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, 0, fmt.Errorf("deserializando variaciones de %d página %d: %w", productID, page, err)
	}
	return out, totalPages, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
