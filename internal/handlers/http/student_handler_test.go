package http_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/xuri/excelize/v2"

	"github.com/maisaeducacao/students-api/internal/domain/ports"
	"github.com/maisaeducacao/students-api/internal/handlers/dto"
)

var _ = Describe("StudentHandler", func() {
	var (
		server *testServer
		token  string
	)

	BeforeEach(func() {
		server = newTestServer()
		token = server.signupAndSignin("admin@maisaeducacao.com.br", "123.456.789-09")
	})

	create := func(name, email, cpf, ra string) *httptest.ResponseRecorder {
		return server.do(request{method: http.MethodPost, path: "/api/v1/students", token: token, body: map[string]string{
			"name": name, "email": email, "cpf": cpf, "ra": ra,
		}})
	}

	createOK := func(name, email, cpf, ra string) dto.UserResponse {
		w := create(name, email, cpf, ra)
		ExpectWithOffset(1, w.Code).To(Equal(http.StatusCreated), w.Body.String())
		var resp dto.Response[dto.UserResponse]
		decode(w, &resp)
		return resp.Data
	}

	list := func(query string) *httptest.ResponseRecorder {
		return server.do(request{method: http.MethodGet, path: "/api/v1/students" + query, token: token})
	}

	Describe("autorização", func() {
		It("exige token", func() {
			w := server.do(request{method: http.MethodGet, path: "/api/v1/students"})

			Expect(w.Code).To(Equal(http.StatusUnauthorized))
			Expect(decodeProblem(w).Type).To(HaveSuffix("/problems/unauthorized"))
		})

		It("token malformado é rejeitado", func() {
			w := server.do(request{method: http.MethodGet, path: "/api/v1/students", token: "abc.def.ghi"})

			Expect(w.Code).To(Equal(http.StatusUnauthorized))
		})
	})

	Describe("POST /students", func() {
		It("cadastra o aluno e publica o evento", func() {
			student := createOK("Ana Silva Santos", "ana.silva@estudante.com", "53325858023", "RA2025001")

			Expect(student.CPF).To(Equal("533.258.580-23"))
			Expect(student.Role).To(Equal("STUDENT"))
			Expect(*student.RA).To(Equal("RA2025001"))
			Expect(server.publisher.Types()).To(Equal([]ports.StudentEventType{ports.StudentCreated}))
		})

		DescribeTable("conflitos retornam 409",
			func(email, cpf, ra, detail string) {
				createOK("Ana Silva Santos", "ana.silva@estudante.com", "533.258.580-23", "RA2025001")

				w := create("Outro", email, cpf, ra)

				Expect(w.Code).To(Equal(http.StatusConflict))
				Expect(decodeProblem(w).Detail).To(Equal(detail))
			},
			Entry("e-mail", "ana.silva@estudante.com", "922.962.034-34", "RA2", "This email is already in use."),
			Entry("CPF", "outro@estudante.com", "533.258.580-23", "RA2", "This CPF is already in use."),
			Entry("CPF de administrador", "outro@estudante.com", "123.456.789-09", "RA2", "This CPF is already in use."),
			Entry("RA", "outro@estudante.com", "922.962.034-34", "RA2025001", "This RA is already in use."),
		)

		It("campos obrigatórios", func() {
			w := server.do(request{method: http.MethodPost, path: "/api/v1/students", token: token, body: map[string]string{}})

			Expect(w.Code).To(Equal(http.StatusBadRequest))
			fields := []string{}
			for _, e := range decodeProblem(w).Errors {
				fields = append(fields, e.Field)
			}
			Expect(fields).To(ConsistOf("name", "email", "ra", "cpf"))
		})
	})

	Describe("GET /students", func() {
		BeforeEach(func() {
			createOK("Ana Silva Santos", "ana.silva@estudante.com", "533.258.580-23", "RA2025001")
			createOK("Carlos Eduardo Lima", "carlos.lima@estudante.com", "922.962.034-34", "RA2025002")
			createOK("Maria Fernanda Costa", "maria.costa@estudante.com", "846.682.812-55", "RA2025003")
		})

		It("retorna o envelope paginado sem administradores", func() {
			w := list("?pageSize=2&sortBy=name")

			Expect(w.Code).To(Equal(http.StatusOK))
			var resp dto.PaginatedResponse[dto.UserResponse]
			decode(w, &resp)
			Expect(resp.Success).To(BeTrue())
			Expect(resp.CurrentPage).To(Equal(1))
			Expect(resp.PageSize).To(Equal(2))
			Expect(resp.TotalCount).To(Equal(int64(3)))
			Expect(resp.TotalPages).To(Equal(2))
			Expect(resp.Data).To(HaveLen(2))
			Expect(resp.Data[0].Name).To(Equal("Ana Silva Santos"))
		})

		It("combina filtros com OR", func() {
			var resp dto.PaginatedResponse[dto.UserResponse]
			decode(list("?name=maria&ra=RA2025002&sortBy=name&sortDirection=desc"), &resp)

			names := []string{}
			for _, s := range resp.Data {
				names = append(names, s.Name)
			}
			Expect(names).To(Equal([]string{"Maria Fernanda Costa", "Carlos Eduardo Lima"}))
		})

		It("lista vazia ainda é um envelope válido", func() {
			var resp dto.PaginatedResponse[dto.UserResponse]
			w := list("?name=ninguem")
			decode(w, &resp)

			Expect(resp.Data).To(BeEmpty())
			Expect(w.Body.String()).To(ContainSubstring(`"data":[]`))
			Expect(resp.TotalPages).To(BeZero())
		})

		DescribeTable("parâmetros inválidos resultam em 400",
			func(query, field, tag string) {
				w := list(query)

				Expect(w.Code).To(Equal(http.StatusBadRequest))
				p := decodeProblem(w)
				Expect(p.Errors).NotTo(BeEmpty())
				Expect(p.Errors[0].Field).To(Equal(field))
				Expect(p.Errors[0].Tag).To(Equal(tag))
			},
			Entry("campo de ordenação desconhecido", "?sortBy=password", "sortBy[0]", "sortfield"),
			Entry("direção desconhecida", "?sortDirection=up", "sortDirection[0]", "sortdir"),
			Entry("mais de cinco critérios", "?sortBy=name,email,cpf,ra,createdAt,name", "sortBy", "maxitems"),
			Entry("página zero", "?page=0", "page", "gte"),
			Entry("pageSize acima do limite", "?pageSize=101", "pageSize", "lte"),
		)

		It("página não numérica é requisição inválida", func() {
			w := list("?page=abc")

			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(decodeProblem(w).Type).To(HaveSuffix("/problems/bad-request"))
		})
	})

	Describe("GET /students/export", func() {
		It("gera a planilha com cabeçalhos no idioma da requisição", func() {
			createOK("Ana Silva Santos", "ana.silva@estudante.com", "533.258.580-23", "RA2025001")

			w := server.do(request{method: http.MethodGet, path: "/api/v1/students/export", token: token, lang: "pt-BR"})

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Header().Get("Content-Type")).To(Equal("application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"))
			Expect(w.Header().Get("Content-Disposition")).To(And(HavePrefix("attachment;"), ContainSubstring(".xlsx")))

			f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
			Expect(err).NotTo(HaveOccurred())
			rows, err := f.GetRows(f.GetSheetName(0))
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(2))
			Expect(rows[0][0]).To(Equal("Nome"))
			Expect(rows[1][0]).To(Equal("Ana Silva Santos"))
		})
	})

	Describe("/students/:id", func() {
		var ana dto.UserResponse

		BeforeEach(func() {
			ana = createOK("Ana Silva Santos", "ana.silva@estudante.com", "533.258.580-23", "RA2025001")
			createOK("Carlos Eduardo Lima", "carlos.lima@estudante.com", "922.962.034-34", "RA2025002")
		})

		It("busca por id", func() {
			w := server.do(request{method: http.MethodGet, path: "/api/v1/students/" + ana.ID, token: token})

			Expect(w.Code).To(Equal(http.StatusOK))
			var resp dto.Response[dto.UserResponse]
			decode(w, &resp)
			Expect(resp.Data.Email).To(Equal("ana.silva@estudante.com"))
		})

		It("id que não é UUID resulta em 400", func() {
			w := server.do(request{method: http.MethodGet, path: "/api/v1/students/123", token: token})

			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(decodeProblem(w).Errors[0].Tag).To(Equal("uuid"))
		})

		It("id desconhecido resulta em 404", func() {
			w := server.do(request{method: http.MethodGet, path: "/api/v1/students/6f1c2b0e-8d1a-4c3e-9b7a-2f4d5e6a7b8c", token: token})

			Expect(w.Code).To(Equal(http.StatusNotFound))
			Expect(decodeProblem(w).Type).To(HaveSuffix("/problems/not-found"))
		})

		It("PATCH altera nome e e-mail", func() {
			w := server.do(request{method: http.MethodPatch, path: "/api/v1/students/" + ana.ID, token: token, body: map[string]string{
				"name": "Ana S. Santos", "email": "ana.santos@estudante.com",
			}})

			Expect(w.Code).To(Equal(http.StatusOK), w.Body.String())
			var resp dto.Response[dto.UserResponse]
			decode(w, &resp)
			Expect(resp.Data.Name).To(Equal("Ana S. Santos"))
			Expect(resp.Data.Email).To(Equal("ana.santos@estudante.com"))
			Expect(resp.Data.CPF).To(Equal(ana.CPF))
		})

		It("PATCH com e-mail de outro aluno é conflito", func() {
			w := server.do(request{method: http.MethodPatch, path: "/api/v1/students/" + ana.ID, token: token, body: map[string]string{
				"email": "carlos.lima@estudante.com",
			}})

			Expect(w.Code).To(Equal(http.StatusConflict))
		})

		It("PATCH com nome em branco é inválido", func() {
			w := server.do(request{method: http.MethodPatch, path: "/api/v1/students/" + ana.ID, token: token, body: map[string]string{
				"name": "   ",
			}})

			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(decodeProblem(w).Errors[0].Tag).To(Equal("notblank"))
		})

		It("DELETE remove o aluno", func() {
			w := server.do(request{method: http.MethodDelete, path: "/api/v1/students/" + ana.ID, token: token})
			Expect(w.Code).To(Equal(http.StatusOK))

			var resp dto.Response[dto.MessageResponse]
			decode(w, &resp)
			Expect(resp.Data.Message).To(Equal("Student deleted successfully."))

			w = server.do(request{method: http.MethodGet, path: "/api/v1/students/" + ana.ID, token: token})
			Expect(w.Code).To(Equal(http.StatusNotFound))

			types := server.publisher.Types()
			Expect(types[len(types)-1]).To(Equal(ports.StudentDeleted))
		})
	})

	Describe("rotas auxiliares", func() {
		It("health e métricas são públicas", func() {
			w := server.do(request{method: http.MethodGet, path: "/health"})
			Expect(w.Code).To(Equal(http.StatusOK))

			list("")
			w = server.do(request{method: http.MethodGet, path: "/metrics"})
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(strings.Contains(w.Body.String(), `path="/api/v1/students"`)).To(BeTrue())
		})

		It("stream de eventos desativado responde 404", func() {
			w := server.do(request{method: http.MethodGet, path: "/api/v1/students/events?access_token=" + token})

			Expect(w.Code).To(Equal(http.StatusNotFound))
		})
	})
})
