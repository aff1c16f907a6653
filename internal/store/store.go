// Package store mantém as listas locais de clientes e agendamentos em sincronia
// com o backend realtime. O fluxo é de mão única: escrita → backend → o canal
// de subscription reentrega o conjunto completo → a lista local é substituída
// e reordenada. Nenhuma operação de escrita mexe na lista local por conta
// própria, então o que o app mostra é sempre a verdade remota (eventualmente).
package store

import "errors"

// TenantState é o estado da resolução de tenant em duas etapas
// (sessão → documento do usuário → salão).
type TenantState int

const (
	// StateNoSession: nenhum usuário autenticado.
	StateNoSession TenantState = iota
	// StateResolvingTenant: sessão ativa, aguardando o documento do usuário
	// informar o salão.
	StateResolvingTenant
	// StateTenantKnown: salão resolvido; operações de escrita liberadas.
	StateTenantKnown
	// StateNoTenant: o documento do usuário existe mas não aponta salão.
	StateNoTenant
)

func (s TenantState) String() string {
	switch s {
	case StateNoSession:
		return "no-session"
	case StateResolvingTenant:
		return "resolving-tenant"
	case StateTenantKnown:
		return "tenant-known"
	case StateNoTenant:
		return "no-tenant"
	default:
		return "unknown"
	}
}

var (
	// ErrNotReady: sessão ativa mas a configuração da conta (salão) ainda não
	// terminou de resolver.
	ErrNotReady = errors.New("aguarde um momento, estamos finalizando a configuração da sua conta")

	// ErrInvalidSession: não há sessão ativa.
	ErrInvalidSession = errors.New("sessão inválida, por favor faça login novamente")
)
