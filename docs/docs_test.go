package docs

import (
	"encoding/json"
	"regexp"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"itams/pkg/assets"
	"itams/pkg/assignments"
	"itams/pkg/audits"
	"itams/pkg/brands"
	"itams/pkg/categories"
	"itams/pkg/dashboard"
	"itams/pkg/locations"
	"itams/pkg/maintenance"
	"itams/pkg/statuses"
	"itams/pkg/suppliers"
	"itams/pkg/users"
)

type swaggerDoc struct {
	Swagger     string                                `json:"swagger"`
	Paths       map[string]map[string]json.RawMessage `json:"paths"`
	Definitions map[string]struct {
		Properties map[string]json.RawMessage `json:"properties"`
	} `json:"definitions"`
}

func readDoc(t *testing.T) swaggerDoc {
	t.Helper()
	var doc swaggerDoc
	require.NoError(t, json.Unmarshal([]byte(SwaggerInfo.ReadDoc()), &doc))
	return doc
}

func TestSwaggerDoc_DocumentsReconciliationEndpoints(t *testing.T) {
	doc := readDoc(t)

	require.Equal(t, "2.0", doc.Swagger)
	require.Contains(t, doc.Paths["/audits/{id}/scan"], "post")
	require.Contains(t, doc.Paths["/audits/{id}/close"], "post")
	require.Contains(t, doc.Paths["/audits/{id}/variance"], "get")
	require.Contains(t, doc.Paths["/assets/{id}/depreciation"], "get")
	require.Contains(t, doc.Paths["/assets"], "get")
	require.Contains(t, doc.Paths["/assets"], "post")

	require.Contains(t, doc.Definitions["audits.Variance"].Properties, "missing")
	require.Contains(t, doc.Definitions["audits.Variance"].Properties, "extra")
	require.Contains(t, doc.Definitions["audits.Variance"].Properties, "moved")
	require.Contains(t, doc.Definitions["depreciation.View"].Properties, "current_value")
	require.Contains(t, doc.Definitions["assets.Asset"].Properties, "supplier_id")
}

func TestSwaggerDoc_ReferencesResolve(t *testing.T) {
	raw := SwaggerInfo.ReadDoc()
	doc := readDoc(t)

	refs := regexp.MustCompile(`"#/definitions/([^"]+)"`).FindAllStringSubmatch(raw, -1)
	require.NotEmpty(t, refs)
	for _, ref := range refs {
		require.Contains(t, doc.Definitions, ref[1])
	}
}

var routeParam = regexp.MustCompile(`:(\w+)`)

func TestSwaggerDoc_CoversEveryRegisteredRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	users.NewUserHandler(nil).RegisterRoutes(router)
	locations.NewLocationHandler(nil).RegisterRoutes(router)
	categories.NewCategoryHandler(nil).RegisterRoutes(router)
	statuses.NewStatusHandler(nil).RegisterRoutes(router)
	brands.NewBrandHandler(nil).RegisterRoutes(router)
	suppliers.NewSupplierHandler(nil).RegisterRoutes(router)
	dashboard.NewSummaryHandler(nil).RegisterRoutes(router)
	assets.NewAssetHandler(nil).RegisterRoutes(router)
	assignments.NewAssignmentHandler(nil).RegisterRoutes(router)
	maintenance.NewLogHandler(nil).RegisterRoutes(router)
	audits.NewAuditHandler(nil, nil).RegisterRoutes(router)

	doc := readDoc(t)
	routes := router.Routes()
	require.NotEmpty(t, routes)
	for _, route := range routes {
		path := routeParam.ReplaceAllString(route.Path, "{$1}")
		require.Contains(t, doc.Paths, path, route.Method+" "+route.Path)
		require.Contains(t, doc.Paths[path], strings.ToLower(route.Method), route.Method+" "+route.Path)
	}
}
