package client

import (
	"go/parser"
	"go/token"
	"testing"

	"github.com/go-openapi/spec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/griffnb/core-endpoints/internal/document"
	"github.com/griffnb/core-endpoints/internal/domain"
	"github.com/griffnb/core-endpoints/internal/endpoint"
)

var (
	number = domain.Primitive(domain.NUMBER)
	text   = domain.Primitive(domain.STRING)
)

func resolve(t *testing.T, m *domain.MethodDescriptor) *endpoint.Endpoint {
	t.Helper()
	c := endpoint.New(nil, document.New(document.Info{BasePath: "/v1/"}), nil, nil)
	res, err := c.Compile(m)
	require.NoError(t, err)
	return res.Endpoint
}

func getUser() *domain.MethodDescriptor {
	return &domain.MethodDescriptor{
		Service:      "UserService",
		Name:         "GetUser",
		Parameters:   []domain.ParameterDescriptor{{Name: "id", Type: number}},
		ReturnType:   domain.Named("User").WithDisplay("*User"),
		ReturnsError: true,
		Annotations:  domain.Annotations{"alias": "users"},
	}
}

func listUsers() *domain.MethodDescriptor {
	return &domain.MethodDescriptor{
		Service: "UserService",
		Name:    "ListUsers",
		Parameters: []domain.ParameterDescriptor{
			{Name: "limit", Type: number},
			{Name: "cursor", Type: text, Optional: true},
		},
		ReturnType:  domain.Array(domain.Named("User")),
		Annotations: domain.Annotations{"alias": "users", "query": "limit"},
	}
}

func createUser() *domain.MethodDescriptor {
	return &domain.MethodDescriptor{
		Service:      "UserService",
		Name:         "CreateUser",
		Parameters:   []domain.ParameterDescriptor{{Name: "body", Type: domain.Named("CreateUser")}},
		ReturnsError: true,
		Annotations:  domain.Annotations{"alias": "users"},
	}
}

func TestNew(t *testing.T) {
	ts, err := New(" TS ")
	require.NoError(t, err)
	assert.Equal(t, TargetTypeScript, ts.Target())

	golang, err := New("go")
	require.NoError(t, err)
	assert.Equal(t, TargetGo, golang.Target())

	_, err = New("swift")
	assert.Error(t, err)
}

func TestTypeScript_RenderMethod(t *testing.T) {
	t.Run("path parameter", func(t *testing.T) {
		// Arrange
		e := resolve(t, getUser())

		// Act
		code, err := NewTypeScript().RenderMethod(e)

		// Assert
		require.NoError(t, err)
		assert.Contains(t, code, "async getUser(id: number): Promise<User> {")
		assert.Contains(t, code, "const res = await this.http.get<User>(`/v1/users/${encodeURIComponent(id)}`);")
		assert.Contains(t, code, "return res.data;")
	})

	t.Run("query parameters with a trailing optional", func(t *testing.T) {
		code, err := NewTypeScript().RenderMethod(resolve(t, listUsers()))

		require.NoError(t, err)
		assert.Contains(t, code, "async listUsers(limit: number, cursor?: string): Promise<User[]> {")
		assert.Contains(t, code, "this.http.get<User[]>(`/v1/users`, { params: { limit, cursor } })")
	})

	t.Run("body without result", func(t *testing.T) {
		code, err := NewTypeScript().RenderMethod(resolve(t, createUser()))

		require.NoError(t, err)
		assert.Contains(t, code, "async createUser(body: CreateUser): Promise<void> {")
		assert.Contains(t, code, "await this.http.post<void>(`/v1/users`, body);")
		assert.NotContains(t, code, "res.data")
	})
}

func TestTypeScript_File(t *testing.T) {
	// Arrange
	ts := NewTypeScript()
	method, err := ts.RenderMethod(resolve(t, getUser()))
	require.NoError(t, err)
	defs := spec.Definitions{
		"User": spec.Schema{SchemaProps: spec.SchemaProps{
			Type:       []string{"object"},
			Properties: spec.SchemaProperties{"name": *spec.StringProperty()},
		}},
	}

	// Act
	src, err := ts.File("", []ServiceMethods{{Service: "UserService", Methods: []string{method}}}, defs)

	// Assert
	require.NoError(t, err)
	out := string(src)
	assert.Contains(t, out, `import axios, { AxiosInstance } from "axios";`)
	assert.Contains(t, out, "export interface User {")
	assert.Contains(t, out, "export class UserServiceClient {")
	assert.Contains(t, out, "constructor(private readonly http: AxiosInstance = axios.create()) {}")
	assert.Contains(t, out, "async getUser(id: number): Promise<User> {")
}

func TestGo_RenderMethod(t *testing.T) {
	t.Run("pointer result", func(t *testing.T) {
		// Act
		code, err := NewGo().RenderMethod(resolve(t, getUser()))

		// Assert
		require.NoError(t, err)
		assert.Contains(t, code, "func (c *UserServiceClient) GetUser(ctx context.Context, id int) (*User, error) {")
		assert.Contains(t, code, `c.client.Do(ctx, http.MethodGet, "/v1/users/" + httpkit.PathParam(id), nil, nil, &out)`)
		assert.Contains(t, code, "return nil, err")
		assert.Contains(t, code, "return &out, nil")
	})

	t.Run("query struct", func(t *testing.T) {
		code, err := NewGo().RenderMethod(resolve(t, listUsers()))

		require.NoError(t, err)
		assert.Contains(t, code, "Limit int `schema:\"limit\"`")
		assert.Contains(t, code, "Cursor string `schema:\"cursor,omitempty\"`")
		assert.Contains(t, code, `c.client.Do(ctx, http.MethodGet, "/v1/users", query, nil, &out)`)
	})

	t.Run("body without result", func(t *testing.T) {
		code, err := NewGo().RenderMethod(resolve(t, createUser()))

		require.NoError(t, err)
		assert.Contains(t, code, "func (c *UserServiceClient) CreateUser(ctx context.Context, body CreateUser) error {")
		assert.Contains(t, code, `return c.client.Do(ctx, http.MethodPost, "/v1/users", nil, body, nil)`)
	})
}

func TestGo_RenderMethod_NameCollisions(t *testing.T) {
	t.Run("parameter named like a generated local", func(t *testing.T) {
		// Arrange
		m := &domain.MethodDescriptor{
			Service: "SearchService",
			Name:    "Search",
			Parameters: []domain.ParameterDescriptor{
				{Name: "query", Type: text},
				{Name: "out", Type: number},
			},
			ReturnType:  domain.Array(domain.Named("Item")),
			Annotations: domain.Annotations{"alias": "search", "query": "query"},
		}

		// Act
		code, err := NewGo().RenderMethod(resolve(t, m))

		// Assert
		require.NoError(t, err)
		assert.Contains(t, code, "Search(ctx context.Context, query2 string, out2 int) ([]Item, error) {")
		assert.Contains(t, code, "Query string `schema:\"query\"`")
		assert.Contains(t, code, "Query: query2,")
		assert.Contains(t, code, "Out: out2,")
		assert.Contains(t, code, "var out []Item")
	})

	t.Run("receiver, context and error names", func(t *testing.T) {
		m := &domain.MethodDescriptor{
			Service: "SearchService",
			Name:    "Tag",
			Parameters: []domain.ParameterDescriptor{
				{Name: "c", Type: text},
				{Name: "ctx", Type: text},
				{Name: "err", Type: domain.Named("Item")},
			},
			Annotations: domain.Annotations{"alias": "tags/labels", "method": "put"},
		}

		code, err := NewGo().RenderMethod(resolve(t, m))

		require.NoError(t, err)
		assert.Contains(t, code, "func (c *SearchServiceClient) Tag(ctx context.Context, c2 string, ctx2 string, err2 Item) error {")
		assert.Contains(t, code, `"/v1/tags/" + httpkit.PathParam(c2) + "/labels/" + httpkit.PathParam(ctx2)`)
		assert.Contains(t, code, ", nil, err2, nil)")
	})

	t.Run("query fields differing only in case", func(t *testing.T) {
		m := &domain.MethodDescriptor{
			Service: "SearchService",
			Name:    "Get",
			Parameters: []domain.ParameterDescriptor{
				{Name: "id", Type: number},
				{Name: "Id", Type: number},
			},
			Annotations: domain.Annotations{"alias": "items", "query": "id"},
		}

		code, err := NewGo().RenderMethod(resolve(t, m))

		require.NoError(t, err)
		assert.Contains(t, code, "Id int `schema:\"id\"`")
		assert.Contains(t, code, "Id2 int `schema:\"Id\"`")
	})
}

func TestTypeScript_RenderMethod_ResultName(t *testing.T) {
	// Arrange
	m := &domain.MethodDescriptor{
		Service:     "SearchService",
		Name:        "Echo",
		Parameters:  []domain.ParameterDescriptor{{Name: "res", Type: text}},
		ReturnType:  text,
		Annotations: domain.Annotations{"alias": "echo"},
	}

	// Act
	code, err := NewTypeScript().RenderMethod(resolve(t, m))

	// Assert
	require.NoError(t, err)
	assert.Contains(t, code, "async echo(res: string): Promise<string> {")
	assert.Contains(t, code, "const res2 = await this.http.get<string>(`/v1/echo/${encodeURIComponent(res)}`);")
	assert.Contains(t, code, "return res2.data;")
}

func TestGo_File(t *testing.T) {
	// Arrange
	g := NewGo()
	var methods []string
	for _, m := range []*domain.MethodDescriptor{getUser(), listUsers(), createUser()} {
		code, err := g.RenderMethod(resolve(t, m))
		require.NoError(t, err)
		methods = append(methods, code)
	}

	// Act
	src, err := g.File("users", []ServiceMethods{{Service: "UserService", Methods: methods}}, nil)

	// Assert
	require.NoError(t, err)
	f, err := parser.ParseFile(token.NewFileSet(), g.FileName(), src, parser.ParseComments)
	require.NoError(t, err)
	assert.Equal(t, "users", f.Name.Name)
	out := string(src)
	assert.Contains(t, out, "type UserServiceClient struct {")
	assert.Contains(t, out, "func NewUserServiceClient(client *httpkit.Client) *UserServiceClient {")
}
