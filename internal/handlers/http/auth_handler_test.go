package http_test

import (
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/maisaeducacao/students-api/internal/handlers/dto"
)

var _ = Describe("AuthHandler", func() {
	var server *testServer

	BeforeEach(func() {
		server = newTestServer()
	})

	signup := func(body any) *httptest.ResponseRecorder {
		return server.do(request{method: http.MethodPost, path: "/api/v1/auth/signup", body: body})
	}

	Describe("POST /auth/signup", func() {
		It("cadastra um administrador sem expor a senha", func() {
			r := signup(map[string]string{
				"name": "Admin", "email": "Admin@MaisaEducacao.com.br", "cpf": "12345678909", "password": "senha1234",
			})

			Expect(r.Code).To(Equal(http.StatusCreated))
			Expect(r.Body.String()).NotTo(ContainSubstring("senha1234"))
			Expect(r.Body.String()).NotTo(ContainSubstring("password"))

			var resp dto.Response[dto.UserResponse]
			decode(r, &resp)
			Expect(resp.Code).To(Equal(http.StatusCreated))
			Expect(resp.Success).To(BeTrue())
			Expect(resp.Data.Email).To(Equal("admin@maisaeducacao.com.br"))
			Expect(resp.Data.CPF).To(Equal("123.456.789-09"))
			Expect(resp.Data.Role).To(Equal("ADMIN"))
		})

		It("retorna erros de campo localizados", func() {
			w := server.do(request{
				method: http.MethodPost,
				path:   "/api/v1/auth/signup",
				lang:   "pt-BR",
				body:   map[string]string{"name": "Admin", "email": "invalid-email", "cpf": "123.456.789-19", "password": "curta"},
			})

			Expect(w.Code).To(Equal(http.StatusBadRequest))
			p := decodeProblem(w)
			Expect(p.Type).To(Equal("http://api.test/problems/validation-error"))
			Expect(p.Title).To(Equal("Erro de Validação"))
			Expect(p.Errors).To(HaveLen(3))

			tags := map[string]string{}
			for _, e := range p.Errors {
				tags[e.Field] = e.Tag
				Expect(e.Message).NotTo(BeEmpty())
			}
			Expect(tags).To(Equal(map[string]string{
				"email":    "email",
				"password": "min",
				"cpf":      "BAD_CHECKSUM_1",
			}))
		})

		It("corpo malformado é requisição inválida", func() {
			w := server.do(request{method: http.MethodPost, path: "/api/v1/auth/signup", body: "{"})

			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(decodeProblem(w).Type).To(HaveSuffix("/problems/bad-request"))
		})

		It("e-mail repetido é conflito", func() {
			body := map[string]string{"name": "Admin", "email": "admin@maisaeducacao.com.br", "cpf": "123.456.789-09", "password": "senha1234"}
			Expect(signup(body).Code).To(Equal(http.StatusCreated))

			body["cpf"] = "987.654.321-00"
			r := signup(body)

			Expect(r.Code).To(Equal(http.StatusConflict))
			p := decodeProblem(r)
			Expect(p.Status).To(Equal(http.StatusConflict))
			Expect(p.Detail).To(Equal("This email is already in use."))
		})
	})

	Describe("POST /auth/signin", func() {
		BeforeEach(func() {
			Expect(signup(map[string]string{
				"name": "Admin", "email": "admin@maisaeducacao.com.br", "cpf": "123.456.789-09", "password": "senha1234",
			}).Code).To(Equal(http.StatusCreated))
		})

		It("senha errada resulta em 401", func() {
			w := server.do(request{method: http.MethodPost, path: "/api/v1/auth/signin", body: map[string]string{
				"email": "admin@maisaeducacao.com.br", "password": "outrasenha",
			}})

			Expect(w.Code).To(Equal(http.StatusUnauthorized))
			Expect(decodeProblem(w).Type).To(HaveSuffix("/problems/unauthorized"))
		})

		It("token emitido identifica o administrador", func() {
			w := server.do(request{method: http.MethodPost, path: "/api/v1/auth/signin", body: map[string]string{
				"email": "admin@maisaeducacao.com.br", "password": "senha1234",
			}})
			Expect(w.Code).To(Equal(http.StatusOK))

			var resp dto.Response[dto.TokenResponse]
			decode(w, &resp)

			claims, err := server.tokens.Verify(resp.Data.AccessToken)
			Expect(err).NotTo(HaveOccurred())
			Expect(claims.Email).To(Equal("admin@maisaeducacao.com.br"))
			Expect(claims.CPF).To(Equal("123.456.789-09"))
			Expect(string(claims.Role)).To(Equal("ADMIN"))
		})
	})

	Describe("sessão", func() {
		It("me, signout e rejeição do token revogado", func() {
			token := server.signupAndSignin("admin@maisaeducacao.com.br", "123.456.789-09")

			w := server.do(request{method: http.MethodGet, path: "/api/v1/auth/me", token: token})
			Expect(w.Code).To(Equal(http.StatusOK))
			var me dto.Response[dto.UserResponse]
			decode(w, &me)
			Expect(me.Data.Email).To(Equal("admin@maisaeducacao.com.br"))

			w = server.do(request{method: http.MethodPost, path: "/api/v1/auth/signout", token: token})
			Expect(w.Code).To(Equal(http.StatusOK))

			w = server.do(request{method: http.MethodGet, path: "/api/v1/auth/me", token: token})
			Expect(w.Code).To(Equal(http.StatusUnauthorized))
			Expect(decodeProblem(w).Detail).To(Equal("This session has been signed out"))
		})

		It("sem token resulta em 401", func() {
			w := server.do(request{method: http.MethodGet, path: "/api/v1/auth/me"})

			Expect(w.Code).To(Equal(http.StatusUnauthorized))
		})
	})
})
