// Package session centraliza o estado de autenticação do processo. Substitui
// o antigo flag global de troca de conta: quem precisa saber se há usuário
// logado ou se uma troca está em andamento consulta o Controller, e os stores
// reagem via OnAuthStateChanged.
package session

import (
	"sync"

	"github.com/BruksfildServices01/salon-agenda/internal/models"
)

type Controller struct {
	mu        sync.RWMutex
	user      *models.User
	switching bool

	nextID    int
	listeners map[int]func(*models.User)
}

func NewController() *Controller {
	return &Controller{listeners: make(map[int]func(*models.User))}
}

// CurrentUser devolve o usuário da sessão ativa, ou nil.
func (c *Controller) CurrentUser() *models.User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.user
}

// SetUser instala a sessão e notifica os assinantes. É chamado após um
// sign-in bem-sucedido ou ao montar uma sessão a partir de um token.
func (c *Controller) SetUser(user *models.User) {
	c.mu.Lock()
	c.user = user
	fns := c.snapshotListeners()
	c.mu.Unlock()

	for _, fn := range fns {
		fn(user)
	}
}

// SignOut derruba a sessão; os assinantes recebem nil e devem desfazer suas
// subscriptions e limpar estado local.
func (c *Controller) SignOut() {
	c.SetUser(nil)
}

// OnAuthStateChanged registra fn para mudanças de sessão. O estado atual é
// entregue imediatamente, antes do retorno.
func (c *Controller) OnAuthStateChanged(fn func(*models.User)) (cancel func()) {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	current := c.user
	c.mu.Unlock()

	fn(current)

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.listeners, id)
	}
}

// Switching indica uma troca de conta em andamento; a navegação raiz usa
// isso para segurar redirects enquanto a sessão antiga cai e a nova sobe.
func (c *Controller) Switching() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.switching
}

func (c *Controller) SetSwitching(switching bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.switching = switching
}

func (c *Controller) snapshotListeners() []func(*models.User) {
	fns := make([]func(*models.User), 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	return fns
}
