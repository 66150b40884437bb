// Package query monta a consulta normalizada (predicado, ordenação e paginação)
// usada na listagem de alunos.
package query

import (
	"fmt"
	"strings"

	"github.com/maisaeducacao/students-api/internal/domain/entities"
	"github.com/maisaeducacao/students-api/internal/domain/valueobjects"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
	MaxSortCriteria = 5
)

// SortField é um campo ordenável da listagem de alunos
type SortField string

const (
	SortByName      SortField = "name"
	SortByEmail     SortField = "email"
	SortByCPF       SortField = "cpf"
	SortByRA        SortField = "ra"
	SortByCreatedAt SortField = "createdAt"
)

// IsValid verifica se o campo é ordenável
func (f SortField) IsValid() bool {
	switch f {
	case SortByName, SortByEmail, SortByCPF, SortByRA, SortByCreatedAt:
		return true
	}
	return false
}

// SortDirection é a direção de ordenação
type SortDirection string

const (
	Asc  SortDirection = "asc"
	Desc SortDirection = "desc"
)

// IsValid verifica se a direção é conhecida
func (d SortDirection) IsValid() bool {
	return d == Asc || d == Desc
}

// FilterField é um campo filtrável
type FilterField string

const (
	FilterName  FilterField = "name"
	FilterEmail FilterField = "email"
	FilterCPF   FilterField = "cpf"
	FilterRA    FilterField = "ra"
)

// Operator define como o valor do filtro é comparado
type Operator string

const (
	// OpContainsInsensitive é substring sem diferenciar maiúsculas
	OpContainsInsensitive Operator = "contains_insensitive"
	OpEquals              Operator = "equals"
)

// Condition é uma condição de filtro
type Condition struct {
	Field    FilterField `json:"field"`
	Operator Operator    `json:"op"`
	Value    string      `json:"value"`
}

// Predicate é role obrigatório AND (condições combinadas com OR)
type Predicate struct {
	Role entities.Role `json:"role"`
	Or   []Condition   `json:"or,omitempty"`
}

// Order é um par (campo, direção)
type Order struct {
	Field     SortField     `json:"field"`
	Direction SortDirection `json:"direction"`
}

// Descriptor é a consulta normalizada entregue ao repositório
type Descriptor struct {
	Predicate Predicate `json:"predicate"`
	Ordering  []Order   `json:"ordering"`
	Page      int       `json:"page"`
	PageSize  int       `json:"pageSize"`
	Skip      int       `json:"skip"`
	Limit     int       `json:"limit"`
}

// RawFilterParams são os parâmetros da listagem, já validados pela camada HTTP.
// SortBy e SortDirection aceitam elementos separados por vírgula.
type RawFilterParams struct {
	Page          int
	PageSize      int
	Name          string
	Email         string
	CPF           string
	RA            string
	SortBy        []string
	SortDirection []string
}

// Build produz o Descriptor para os parâmetros informados.
// Campos ou direções de ordenação desconhecidos são erro de programação e causam panic.
func Build(params RawFilterParams) Descriptor {
	page := params.Page
	if page < 1 {
		page = DefaultPage
	}

	pageSize := params.PageSize
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	return Descriptor{
		Predicate: Predicate{
			Role: entities.RoleStudent,
			Or:   buildConditions(params),
		},
		Ordering: buildOrdering(params.SortBy, params.SortDirection),
		Page:     page,
		PageSize: pageSize,
		Skip:     (page - 1) * pageSize,
		Limit:    pageSize,
	}
}

func buildConditions(params RawFilterParams) []Condition {
	var conditions []Condition

	if params.Name != "" {
		conditions = append(conditions, Condition{Field: FilterName, Operator: OpContainsInsensitive, Value: params.Name})
	}
	if params.Email != "" {
		conditions = append(conditions, Condition{Field: FilterEmail, Operator: OpContainsInsensitive, Value: params.Email})
	}
	if params.CPF != "" {
		// Busca parcial por CPF de registros legados: sem validação de dígitos
		conditions = append(conditions, Condition{Field: FilterCPF, Operator: OpEquals, Value: valueobjects.FormatCPF(params.CPF)})
	}
	if params.RA != "" {
		conditions = append(conditions, Condition{Field: FilterRA, Operator: OpEquals, Value: params.RA})
	}

	return conditions
}

func buildOrdering(rawFields, rawDirections []string) []Order {
	fields := capList(SplitList(rawFields, false))
	directions := capList(SplitList(rawDirections, true))

	if len(fields) == 0 {
		return []Order{{Field: SortByCreatedAt, Direction: Desc}}
	}

	ordering := make([]Order, 0, len(fields))
	for i, f := range fields {
		field := SortField(f)
		if !field.IsValid() {
			panic(fmt.Sprintf("query: unknown sort field %q", f))
		}

		direction := Asc
		if i < len(directions) {
			direction = SortDirection(directions[i])
			if !direction.IsValid() {
				panic(fmt.Sprintf("query: unknown sort direction %q", directions[i]))
			}
		}

		ordering = append(ordering, Order{Field: field, Direction: direction})
	}

	return ordering
}

// SplitList aceita tanto ["name,email"] quanto ["name", "email"]: separa por vírgula,
// remove espaços e descarta vazios. Com lower, converte para minúsculas.
func SplitList(values []string, lower bool) []string {
	var out []string

	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if lower {
				part = strings.ToLower(part)
			}
			out = append(out, part)
		}
	}

	return out
}

func capList(values []string) []string {
	if len(values) > MaxSortCriteria {
		return values[:MaxSortCriteria]
	}
	return values
}

// TotalPages calcula ceil(totalCount / pageSize); zero registros resulta em zero páginas
func TotalPages(totalCount int64, pageSize int) int {
	if totalCount <= 0 || pageSize <= 0 {
		return 0
	}
	return int((totalCount + int64(pageSize) - 1) / int64(pageSize))
}
