// Package graphql exposes the catalog services over GraphQL.
// Resolvers contain no business rules; they translate arguments and delegate
// to the same usecase interfaces the REST handlers consume, so both
// transports observe identical semantics.
package graphql

import (
	"context"
	"errors"

	"github.com/graphql-go/graphql"

	"marketplace_backend/internal/apperr"
	categoryusecase "marketplace_backend/internal/feature/categories/usecase"
	productusecase "marketplace_backend/internal/feature/products/usecase"
	userusecase "marketplace_backend/internal/feature/users/usecase"
	"marketplace_backend/internal/pagination"
)

// UserService is the slice of the user usecase the resolvers consume.
type UserService interface {
	List(ctx context.Context, req pagination.PageRequest) (pagination.Page[userusecase.UserView], error)
	GetByID(ctx context.Context, id uint) (userusecase.UserView, error)
	GetByUsername(ctx context.Context, username string) (userusecase.UserView, error)
	GetByEmail(ctx context.Context, email string) (userusecase.UserView, error)
	Create(ctx context.Context, in userusecase.UserInput) (userusecase.UserView, error)
	Update(ctx context.Context, id uint, in userusecase.UserInput) (userusecase.UserView, error)
	Delete(ctx context.Context, id uint) error
}

// CategoryService is the slice of the category usecase the resolvers consume.
type CategoryService interface {
	List(ctx context.Context, req pagination.PageRequest) (pagination.Page[categoryusecase.CategoryView], error)
	GetByID(ctx context.Context, id uint) (categoryusecase.CategoryView, error)
	GetByName(ctx context.Context, name string) (categoryusecase.CategoryView, error)
	Create(ctx context.Context, in categoryusecase.CategoryInput) (categoryusecase.CategoryView, error)
	Update(ctx context.Context, id uint, in categoryusecase.CategoryInput) (categoryusecase.CategoryView, error)
	Delete(ctx context.Context, id uint) error
}

// ProductService is the slice of the product usecase the resolvers consume.
type ProductService interface {
	ListActive(ctx context.Context, req pagination.PageRequest) (pagination.Page[productusecase.ProductView], error)
	GetByID(ctx context.Context, id uint) (productusecase.ProductView, error)
	Create(ctx context.Context, in productusecase.ProductInput) (productusecase.ProductView, error)
	Update(ctx context.Context, id uint, in productusecase.ProductInput) (productusecase.ProductView, error)
	Delete(ctx context.Context, id uint) error
	ByCategory(ctx context.Context, categoryID uint, req pagination.PageRequest) (pagination.Page[productusecase.ProductView], error)
	BySeller(ctx context.Context, sellerID uint, req pagination.PageRequest) (pagination.Page[productusecase.ProductView], error)
	Search(ctx context.Context, keyword string, req pagination.PageRequest) (pagination.Page[productusecase.ProductView], error)
	ByPriceRange(ctx context.Context, minPrice, maxPrice *float64, req pagination.PageRequest) (pagination.Page[productusecase.ProductView], error)
}

// userMap flattens a user projection for the default map resolver.
func userMap(v userusecase.UserView) map[string]interface{} {
	return map[string]interface{}{
		"id":        v.ID,
		"username":  v.Username,
		"email":     v.Email,
		"firstName": v.FirstName,
		"lastName":  v.LastName,
		"role":      string(v.Role),
		"enabled":   v.Enabled,
		"createdAt": v.CreatedAt,
	}
}

// categoryMap flattens a category projection for the default map resolver.
func categoryMap(v categoryusecase.CategoryView) map[string]interface{} {
	return map[string]interface{}{
		"id":          v.ID,
		"name":        v.Name,
		"description": v.Description,
		"imageUrl":    v.ImageURL,
		"active":      v.Active,
		"createdAt":   v.CreatedAt,
	}
}

// productMap flattens a product projection for the default map resolver.
// Nil references stay nil so GraphQL serializes them as null.
func productMap(v productusecase.ProductView) map[string]interface{} {
	m := map[string]interface{}{
		"id":          v.ID,
		"name":        v.Name,
		"description": v.Description,
		"price":       v.Price,
		"quantity":    v.Quantity,
		"imageUrl":    v.ImageURL,
		"active":      v.Active,
		"createdAt":   v.CreatedAt,
	}
	if v.CategoryID != nil {
		m["categoryId"] = int(*v.CategoryID)
	}
	if v.SellerID != nil {
		m["sellerId"] = int(*v.SellerID)
	}
	return m
}

// pageArgs reads the nullable page/size arguments with the same defaults as
// the REST query parameters.
func pageArgs(p graphql.ResolveParams) pagination.PageRequest {
	page := 0
	if v, ok := p.Args["page"].(int); ok {
		page = v
	}
	size := pagination.DefaultSize
	if v, ok := p.Args["size"].(int); ok {
		size = v
	}
	return pagination.NewPageRequest(page, size, pagination.DefaultSortBy, pagination.Asc)
}

// idArg reads the mandatory id argument.
func idArg(p graphql.ResolveParams) uint {
	v, _ := p.Args["id"].(int)
	return uint(v)
}

// nullIfMissing turns a not-found lookup into a null field. Every other
// failure surfaces in the errors array, matching the REST 5xx mapping.
func nullIfMissing(err error) (interface{}, error) {
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, nil
	}
	return nil, err
}

var userType = graphql.NewObject(graphql.ObjectConfig{
	Name: "User",
	Fields: graphql.Fields{
		"id":        &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"username":  &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"email":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"firstName": &graphql.Field{Type: graphql.String},
		"lastName":  &graphql.Field{Type: graphql.String},
		"role":      &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"enabled":   &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
		"createdAt": &graphql.Field{Type: graphql.DateTime},
	},
})

var categoryType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Category",
	Fields: graphql.Fields{
		"id":          &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"name":        &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"description": &graphql.Field{Type: graphql.String},
		"imageUrl":    &graphql.Field{Type: graphql.String},
		"active":      &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
		"createdAt":   &graphql.Field{Type: graphql.DateTime},
	},
})

var productType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Product",
	Fields: graphql.Fields{
		"id":          &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"name":        &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"description": &graphql.Field{Type: graphql.String},
		"price":       &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
		"quantity":    &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"imageUrl":    &graphql.Field{Type: graphql.String},
		"active":      &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
		"categoryId":  &graphql.Field{Type: graphql.Int},
		"sellerId":    &graphql.Field{Type: graphql.Int},
		"createdAt":   &graphql.Field{Type: graphql.DateTime},
	},
})

var userInputType = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "UserInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"username":  &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"email":     &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"password":  &graphql.InputObjectFieldConfig{Type: graphql.String},
		"firstName": &graphql.InputObjectFieldConfig{Type: graphql.String},
		"lastName":  &graphql.InputObjectFieldConfig{Type: graphql.String},
		"role":      &graphql.InputObjectFieldConfig{Type: graphql.String},
		"enabled":   &graphql.InputObjectFieldConfig{Type: graphql.Boolean},
	},
})

var categoryInputType = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "CategoryInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"name":        &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"description": &graphql.InputObjectFieldConfig{Type: graphql.String},
		"imageUrl":    &graphql.InputObjectFieldConfig{Type: graphql.String},
		"active":      &graphql.InputObjectFieldConfig{Type: graphql.Boolean},
	},
})

var productInputType = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "ProductInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"name":        &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"description": &graphql.InputObjectFieldConfig{Type: graphql.String},
		"price":       &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Float)},
		"quantity":    &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Int)},
		"imageUrl":    &graphql.InputObjectFieldConfig{Type: graphql.String},
		"active":      &graphql.InputObjectFieldConfig{Type: graphql.Boolean},
		"categoryId":  &graphql.InputObjectFieldConfig{Type: graphql.Int},
		"sellerId":    &graphql.InputObjectFieldConfig{Type: graphql.Int},
	},
})

// userInputFromArg converts the UserInput argument map to a usecase input.
func userInputFromArg(arg map[string]interface{}) userusecase.UserInput {
	in := userusecase.UserInput{}
	if v, ok := arg["username"].(string); ok {
		in.Username = v
	}
	if v, ok := arg["email"].(string); ok {
		in.Email = v
	}
	if v, ok := arg["password"].(string); ok {
		in.Password = v
	}
	if v, ok := arg["firstName"].(string); ok {
		in.FirstName = v
	}
	if v, ok := arg["lastName"].(string); ok {
		in.LastName = v
	}
	if v, ok := arg["role"].(string); ok {
		in.Role = v
	}
	if v, ok := arg["enabled"].(bool); ok {
		in.Enabled = &v
	}
	return in
}

// categoryInputFromArg converts the CategoryInput argument map to a usecase input.
func categoryInputFromArg(arg map[string]interface{}) categoryusecase.CategoryInput {
	in := categoryusecase.CategoryInput{}
	if v, ok := arg["name"].(string); ok {
		in.Name = v
	}
	if v, ok := arg["description"].(string); ok {
		in.Description = v
	}
	if v, ok := arg["imageUrl"].(string); ok {
		in.ImageURL = v
	}
	if v, ok := arg["active"].(bool); ok {
		in.Active = &v
	}
	return in
}

// productInputFromArg converts the ProductInput argument map to a usecase input.
func productInputFromArg(arg map[string]interface{}) productusecase.ProductInput {
	in := productusecase.ProductInput{}
	if v, ok := arg["name"].(string); ok {
		in.Name = v
	}
	if v, ok := arg["description"].(string); ok {
		in.Description = v
	}
	if v, ok := arg["price"].(float64); ok {
		in.Price = v
	}
	if v, ok := arg["quantity"].(int); ok {
		in.Quantity = v
	}
	if v, ok := arg["imageUrl"].(string); ok {
		in.ImageURL = v
	}
	if v, ok := arg["active"].(bool); ok {
		in.Active = &v
	}
	if v, ok := arg["categoryId"].(int); ok {
		id := uint(v)
		in.CategoryID = &id
	}
	if v, ok := arg["sellerId"].(int); ok {
		id := uint(v)
		in.SellerID = &id
	}
	return in
}

var pagingArgs = graphql.FieldConfigArgument{
	"page": &graphql.ArgumentConfig{Type: graphql.Int},
	"size": &graphql.ArgumentConfig{Type: graphql.Int},
}

func withPaging(extra graphql.FieldConfigArgument) graphql.FieldConfigArgument {
	args := graphql.FieldConfigArgument{
		"page": &graphql.ArgumentConfig{Type: graphql.Int},
		"size": &graphql.ArgumentConfig{Type: graphql.Int},
	}
	for name, cfg := range extra {
		args[name] = cfg
	}
	return args
}

// NewSchema builds the catalog GraphQL schema over the given services.
func NewSchema(users UserService, categories CategoryService, products ProductService) (graphql.Schema, error) {
	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			// User queries
			"user": &graphql.Field{
				Type: userType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					view, err := users.GetByID(p.Context, idArg(p))
					if err != nil {
						return nullIfMissing(err)
					}
					return userMap(view), nil
				},
			},
			"users": &graphql.Field{
				Type: graphql.NewList(userType),
				Args: pagingArgs,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					page, err := users.List(p.Context, pageArgs(p))
					if err != nil {
						return nil, err
					}
					out := make([]map[string]interface{}, 0, len(page.Items))
					for _, v := range page.Items {
						out = append(out, userMap(v))
					}
					return out, nil
				},
			},
			"userByUsername": &graphql.Field{
				Type: userType,
				Args: graphql.FieldConfigArgument{
					"username": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					username, _ := p.Args["username"].(string)
					view, err := users.GetByUsername(p.Context, username)
					if err != nil {
						return nullIfMissing(err)
					}
					return userMap(view), nil
				},
			},
			"userByEmail": &graphql.Field{
				Type: userType,
				Args: graphql.FieldConfigArgument{
					"email": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					email, _ := p.Args["email"].(string)
					view, err := users.GetByEmail(p.Context, email)
					if err != nil {
						return nullIfMissing(err)
					}
					return userMap(view), nil
				},
			},

			// Product queries
			"product": &graphql.Field{
				Type: productType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					view, err := products.GetByID(p.Context, idArg(p))
					if err != nil {
						return nullIfMissing(err)
					}
					return productMap(view), nil
				},
			},
			"products": &graphql.Field{
				Type: graphql.NewList(productType),
				Args: pagingArgs,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					page, err := products.ListActive(p.Context, pageArgs(p))
					if err != nil {
						return nil, err
					}
					return productMaps(page), nil
				},
			},
			"productsByCategory": &graphql.Field{
				Type: graphql.NewList(productType),
				Args: withPaging(graphql.FieldConfigArgument{
					"categoryId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				}),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					categoryID, _ := p.Args["categoryId"].(int)
					page, err := products.ByCategory(p.Context, uint(categoryID), pageArgs(p))
					if err != nil {
						return nil, err
					}
					return productMaps(page), nil
				},
			},
			"productsBySeller": &graphql.Field{
				Type: graphql.NewList(productType),
				Args: withPaging(graphql.FieldConfigArgument{
					"sellerId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				}),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					sellerID, _ := p.Args["sellerId"].(int)
					page, err := products.BySeller(p.Context, uint(sellerID), pageArgs(p))
					if err != nil {
						return nil, err
					}
					return productMaps(page), nil
				},
			},
			"searchProducts": &graphql.Field{
				Type: graphql.NewList(productType),
				Args: withPaging(graphql.FieldConfigArgument{
					"keyword": &graphql.ArgumentConfig{Type: graphql.String},
				}),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					keyword, _ := p.Args["keyword"].(string)
					page, err := products.Search(p.Context, keyword, pageArgs(p))
					if err != nil {
						return nil, err
					}
					return productMaps(page), nil
				},
			},
			"productsByPriceRange": &graphql.Field{
				Type: graphql.NewList(productType),
				Args: withPaging(graphql.FieldConfigArgument{
					"min": &graphql.ArgumentConfig{Type: graphql.Float},
					"max": &graphql.ArgumentConfig{Type: graphql.Float},
				}),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					var minPrice, maxPrice *float64
					if v, ok := p.Args["min"].(float64); ok {
						minPrice = &v
					}
					if v, ok := p.Args["max"].(float64); ok {
						maxPrice = &v
					}
					page, err := products.ByPriceRange(p.Context, minPrice, maxPrice, pageArgs(p))
					if err != nil {
						return nil, err
					}
					return productMaps(page), nil
				},
			},

			// Category queries
			"category": &graphql.Field{
				Type: categoryType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					view, err := categories.GetByID(p.Context, idArg(p))
					if err != nil {
						return nullIfMissing(err)
					}
					return categoryMap(view), nil
				},
			},
			"categories": &graphql.Field{
				Type: graphql.NewList(categoryType),
				Args: pagingArgs,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					page, err := categories.List(p.Context, pageArgs(p))
					if err != nil {
						return nil, err
					}
					out := make([]map[string]interface{}, 0, len(page.Items))
					for _, v := range page.Items {
						out = append(out, categoryMap(v))
					}
					return out, nil
				},
			},
			"categoryByName": &graphql.Field{
				Type: categoryType,
				Args: graphql.FieldConfigArgument{
					"name": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					name, _ := p.Args["name"].(string)
					view, err := categories.GetByName(p.Context, name)
					if err != nil {
						return nullIfMissing(err)
					}
					return categoryMap(view), nil
				},
			},
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			// User mutations
			"createUser": &graphql.Field{
				Type: userType,
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(userInputType)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					arg, _ := p.Args["input"].(map[string]interface{})
					view, err := users.Create(p.Context, userInputFromArg(arg))
					if err != nil {
						return nil, err
					}
					return userMap(view), nil
				},
			},
			"updateUser": &graphql.Field{
				Type: userType,
				Args: graphql.FieldConfigArgument{
					"id":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(userInputType)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					arg, _ := p.Args["input"].(map[string]interface{})
					view, err := users.Update(p.Context, idArg(p), userInputFromArg(arg))
					if err != nil {
						return nil, err
					}
					return userMap(view), nil
				},
			},
			"deleteUser": &graphql.Field{
				Type: graphql.Boolean,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if err := users.Delete(p.Context, idArg(p)); err != nil {
						return false, err
					}
					return true, nil
				},
			},

			// Product mutations
			"createProduct": &graphql.Field{
				Type: productType,
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(productInputType)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					arg, _ := p.Args["input"].(map[string]interface{})
					view, err := products.Create(p.Context, productInputFromArg(arg))
					if err != nil {
						return nil, err
					}
					return productMap(view), nil
				},
			},
			"updateProduct": &graphql.Field{
				Type: productType,
				Args: graphql.FieldConfigArgument{
					"id":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(productInputType)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					arg, _ := p.Args["input"].(map[string]interface{})
					view, err := products.Update(p.Context, idArg(p), productInputFromArg(arg))
					if err != nil {
						return nil, err
					}
					return productMap(view), nil
				},
			},
			"deleteProduct": &graphql.Field{
				Type: graphql.Boolean,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if err := products.Delete(p.Context, idArg(p)); err != nil {
						return false, err
					}
					return true, nil
				},
			},

			// Category mutations
			"createCategory": &graphql.Field{
				Type: categoryType,
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(categoryInputType)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					arg, _ := p.Args["input"].(map[string]interface{})
					view, err := categories.Create(p.Context, categoryInputFromArg(arg))
					if err != nil {
						return nil, err
					}
					return categoryMap(view), nil
				},
			},
			"updateCategory": &graphql.Field{
				Type: categoryType,
				Args: graphql.FieldConfigArgument{
					"id":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(categoryInputType)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					arg, _ := p.Args["input"].(map[string]interface{})
					view, err := categories.Update(p.Context, idArg(p), categoryInputFromArg(arg))
					if err != nil {
						return nil, err
					}
					return categoryMap(view), nil
				},
			},
			"deleteCategory": &graphql.Field{
				Type: graphql.Boolean,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if err := categories.Delete(p.Context, idArg(p)); err != nil {
						return false, err
					}
					return true, nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    query,
		Mutation: mutation,
	})
}

// productMaps flattens a page of product projections into the list shape
// the list queries return.
func productMaps(page pagination.Page[productusecase.ProductView]) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(page.Items))
	for _, v := range page.Items {
		out = append(out, productMap(v))
	}
	return out
}
