// Package model 图书馆领域实体与枚举
//
// 枚举的 wire 值使用枚举成员名（如 "TEN_DAYS"），与数据库存储值一致。
package model

import "time"

// LoanType 借阅时长类型
type LoanType string

const (
	LoanTypeTenDays  LoanType = "TEN_DAYS"
	LoanTypeFiveDays LoanType = "FIVE_DAYS"
	LoanTypeTwoDays  LoanType = "TWO_DAYS"
)

// loanTypeDays 借阅时长（天）查找表
var loanTypeDays = map[LoanType]int{
	LoanTypeTenDays:  10,
	LoanTypeFiveDays: 5,
	LoanTypeTwoDays:  2,
}

// Valid 是否为合法的借阅时长类型
func (lt LoanType) Valid() bool {
	_, ok := loanTypeDays[lt]
	return ok
}

// Duration 返回借阅时长
func (lt LoanType) Duration() time.Duration {
	return time.Duration(loanTypeDays[lt]) * 24 * time.Hour
}

// LoanTypeNames 返回全部合法成员名（用于校验错误提示）
func LoanTypeNames() []string {
	return []string{string(LoanTypeTenDays), string(LoanTypeFiveDays), string(LoanTypeTwoDays)}
}

// City 客户所在城市
type City string

const (
	CityTelAviv   City = "TEL_AVIV"
	CityJerusalem City = "JERUSALEM"
	CityHaifa     City = "HAIFA"
	CityEilat     City = "EILAT"
)

var cities = map[City]bool{
	CityTelAviv:   true,
	CityJerusalem: true,
	CityHaifa:     true,
	CityEilat:     true,
}

// Valid 是否为合法城市
func (c City) Valid() bool {
	return cities[c]
}

// CityNames 返回全部合法成员名
func CityNames() []string {
	return []string{string(CityTelAviv), string(CityJerusalem), string(CityHaifa), string(CityEilat)}
}

// Category 图书分类
type Category string

const (
	CategoryFiction        Category = "FICTION"
	CategoryNonFiction     Category = "NON_FICTION"
	CategoryScienceFiction Category = "SCIENCE_FICTION"
	CategoryFantasy        Category = "FANTASY"
	CategoryMystery        Category = "MYSTERY"
	CategoryBiography      Category = "BIOGRAPHY"
	CategoryChildren       Category = "CHILDREN"
)

var categories = map[Category]bool{
	CategoryFiction:        true,
	CategoryNonFiction:     true,
	CategoryScienceFiction: true,
	CategoryFantasy:        true,
	CategoryMystery:        true,
	CategoryBiography:      true,
	CategoryChildren:       true,
}

// Valid 是否为合法分类
func (c Category) Valid() bool {
	return categories[c]
}

// CategoryNames 返回全部合法成员名
func CategoryNames() []string {
	return []string{
		string(CategoryFiction), string(CategoryNonFiction), string(CategoryScienceFiction),
		string(CategoryFantasy), string(CategoryMystery), string(CategoryBiography),
		string(CategoryChildren),
	}
}

// Role 用户/客户角色
type Role string

const (
	RoleCustomer Role = "customer"
	RoleClerk    Role = "clerk"
)

// Valid 是否为合法角色
func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleClerk
}

// RoleNames 返回全部合法成员名
func RoleNames() []string {
	return []string{string(RoleCustomer), string(RoleClerk)}
}

// StatusFilter 列表查询的状态过滤器
type StatusFilter string

const (
	StatusActive   StatusFilter = "active"
	StatusInactive StatusFilter = "inactive"
	StatusAll      StatusFilter = "all"
	StatusLate     StatusFilter = "late" // 仅对 Loan 有意义
)

// ValidFor 校验状态过滤器；late 仅允许用于 Loan
func (s StatusFilter) ValidFor(loans bool) bool {
	switch s {
	case StatusActive, StatusInactive, StatusAll:
		return true
	case StatusLate:
		return loans
	}
	return false
}
