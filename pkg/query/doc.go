// Package query runs graph queries against the relationship index and parses their results.
//
// Results come as a SPARQL XML document:
//
//	<sparql>
//	  <head>...</head>
//	  <results>
//	    <result>
//	      <pid uri="info:fedora/test:1"/>
//	      <label>a literal</label>
//	    </result>
//	  </results>
//	</sparql>
//
// The document is streamed: rows are produced one at a time and never materialized as a whole.
package query
