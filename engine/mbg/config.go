package mbg

import (
	"encoding/xml"
	"io"
	"strconv"

	"github.com/syssam/mbgen/compiler/gen"
)

const doctype = `<!DOCTYPE generatorConfiguration PUBLIC "-//mybatis.org//DTD MyBatis Generator Configuration 1.0//EN" "http://mybatis.org/dtd/mybatis-generator-config_1_0.dtd">`

type (
	configuration struct {
		XMLName   xml.Name         `xml:"generatorConfiguration"`
		ClassPath []classPathEntry `xml:"classPathEntry"`
		Context   xmlContext       `xml:"context"`
	}
	classPathEntry struct {
		Location string `xml:"location,attr"`
	}
	property struct {
		Name  string `xml:"name,attr"`
		Value string `xml:"value,attr"`
	}
	xmlContext struct {
		ID            string          `xml:"id,attr"`
		TargetRuntime string          `xml:"targetRuntime,attr"`
		ModelType     string          `xml:"defaultModelType,attr"`
		Properties    []property      `xml:"property"`
		Plugins       []typed         `xml:"plugin"`
		Comment       typed           `xml:"commentGenerator"`
		Connection    jdbcConnection  `xml:"jdbcConnection"`
		TypeResolver  *typed          `xml:"javaTypeResolver"`
		Model         targetGenerator `xml:"javaModelGenerator"`
		SQLMap        targetGenerator `xml:"sqlMapGenerator"`
		Client        targetGenerator `xml:"javaClientGenerator"`
		Table         table           `xml:"table"`
	}
	typed struct {
		Type       string     `xml:"type,attr,omitempty"`
		Properties []property `xml:"property"`
	}
	jdbcConnection struct {
		DriverClass string     `xml:"driverClass,attr"`
		URL         string     `xml:"connectionURL,attr"`
		UserID      string     `xml:"userId,attr,omitempty"`
		Password    string     `xml:"password,attr,omitempty"`
		Properties  []property `xml:"property"`
	}
	targetGenerator struct {
		Type       string     `xml:"type,attr,omitempty"`
		Package    string     `xml:"targetPackage,attr"`
		Project    string     `xml:"targetProject,attr"`
		Properties []property `xml:"property"`
	}
	table struct {
		Name               string           `xml:"tableName,attr"`
		DomainObject       string           `xml:"domainObjectName,attr"`
		Schema             string           `xml:"schema,attr,omitempty"`
		Catalog            string           `xml:"catalog,attr,omitempty"`
		Alias              string           `xml:"alias,attr,omitempty"`
		MapperName         string           `xml:"mapperName,attr,omitempty"`
		DelimitIdentifiers string           `xml:"delimitIdentifiers,attr,omitempty"`
		SelectByExample    string           `xml:"enableSelectByExample,attr"`
		UpdateByExample    string           `xml:"enableUpdateByExample,attr"`
		DeleteByExample    string           `xml:"enableDeleteByExample,attr"`
		CountByExample     string           `xml:"enableCountByExample,attr"`
		Properties         []property       `xml:"property"`
		Overrides          []columnOverride `xml:"columnOverride"`
		Ignored            []ignoreColumn   `xml:"ignoreColumn"`
	}
	columnOverride struct {
		Column      string `xml:"column,attr"`
		Property    string `xml:"property,attr,omitempty"`
		JavaType    string `xml:"javaType,attr,omitempty"`
		JDBCType    string `xml:"jdbcType,attr,omitempty"`
		TypeHandler string `xml:"typeHandler,attr,omitempty"`
		Delimited   string `xml:"delimitedColumnName,attr,omitempty"`
	}
	ignoreColumn struct {
		Column string `xml:"column,attr"`
	}
)

// WriteConfig writes the job as a MyBatis Generator XML configuration.
func WriteConfig(w io.Writer, job *gen.Job) error {
	if _, err := io.WriteString(w, xml.Header+doctype+"\n"); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(configOf(job)); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func configOf(job *gen.Job) configuration {
	c := configuration{
		Context: xmlContext{
			ID:            job.ID,
			TargetRuntime: job.TargetRuntime,
			ModelType:     job.ModelType,
			Properties:    properties(job.Properties),
			Comment:       typed{Type: job.Comment.Type, Properties: properties(job.Comment.Properties)},
			Connection: jdbcConnection{
				DriverClass: job.Connection.DriverClass,
				URL:         job.Connection.URL,
				UserID:      job.Connection.Username,
				Password:    job.Connection.Password,
				Properties:  properties(job.Connection.Properties),
			},
			Model:  target(job.Model),
			SQLMap: target(job.SQLMap),
			Client: target(job.Client),
			Table:  tableOf(job.Table),
		},
	}
	for _, p := range job.ClassPath {
		c.ClassPath = append(c.ClassPath, classPathEntry{Location: p})
	}
	for _, p := range job.Plugins {
		c.Context.Plugins = append(c.Context.Plugins, typed{Type: p.Type, Properties: properties(p.Properties)})
	}
	if r := job.TypeResolver; r != nil {
		c.Context.TypeResolver = &typed{Type: r.Type, Properties: properties(r.Properties)}
	}
	return c
}

func tableOf(t gen.Table) table {
	x := table{
		Name:            t.Name,
		DomainObject:    t.DomainObject,
		Schema:          t.Scope.Schema(),
		Catalog:         t.Scope.Catalog(),
		Alias:           t.Alias,
		MapperName:      t.MapperName,
		SelectByExample: strconv.FormatBool(t.Statements.SelectByExample),
		UpdateByExample: strconv.FormatBool(t.Statements.UpdateByExample),
		DeleteByExample: strconv.FormatBool(t.Statements.DeleteByExample),
		CountByExample:  strconv.FormatBool(t.Statements.CountByExample),
		Properties:      properties(t.Properties),
	}
	if t.DelimitIdentifiers {
		x.DelimitIdentifiers = "true"
	}
	for _, o := range t.Overrides {
		co := columnOverride{
			Column:      o.Column,
			Property:    o.Property,
			JavaType:    o.JavaType,
			JDBCType:    o.JDBCType,
			TypeHandler: o.TypeHandler,
		}
		if o.Delimited {
			co.Delimited = "true"
		}
		x.Overrides = append(x.Overrides, co)
	}
	for _, c := range t.Ignored {
		x.Ignored = append(x.Ignored, ignoreColumn{Column: c})
	}
	return x
}

func target(t gen.Target) targetGenerator {
	return targetGenerator{
		Type:       t.Type,
		Package:    t.Package,
		Project:    t.Project,
		Properties: properties(t.Properties),
	}
}

func properties(ps gen.Properties) []property {
	out := make([]property, len(ps))
	for i, p := range ps {
		out[i] = property{Name: p.Name, Value: p.Value}
	}
	return out
}
