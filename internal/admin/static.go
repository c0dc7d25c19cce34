package admin

import "net/http"

func serveCSS(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/css")
	w.Write([]byte(`body{font-family:system-ui,Segoe UI,Roboto,Arial,sans-serif;margin:0;background:#0b0c0f;color:#e6e6e6}
a{color:#91c9ff;text-decoration:none} a:hover{text-decoration:underline}
header{padding:12px 20px;border-bottom:1px solid #1b1d22;background:#111318}
.container{max-width:1100px;margin:0 auto;padding:20px}
table{width:100%;border-collapse:collapse;border:1px solid #2a2d34}
th,td{padding:10px;border-bottom:1px solid #2a2d34} th{text-align:left;background:#151720}
.btn{display:inline-block;padding:8px 12px;border:1px solid #2a2d34;background:#1a1d26;color:#e6e6e6;border-radius:6px}
.btn-primary{background:#2563eb;border-color:#2563eb} .btn-danger{background:#b91c1c;border-color:#b91c1c}
input{width:100%;padding:8px;background:#0f1116;color:#e6e6e6;border:1px solid #2a2d34;border-radius:6px}
.card{border:1px solid #2a2d34;border-radius:10px;padding:16px;background:#0f1116;margin-bottom:16px}
h1,h2,h3{margin:12px 0}
.small{opacity:.7} .mono{font-family:ui-monospace,Menlo,Consolas,monospace}`))
}

func serveJS(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/javascript")
	w.Write([]byte(`function hdrs(){return {'x-admin-password':document.getElementById('pwd').value}}
async function loadReservations(){
  const r=await fetch('/admin/reservations',{headers:hdrs()});
  if(r.status===403){alert('wrong password');return}
  const rows=await r.json();
  const tb=document.querySelector('#tbl tbody');tb.innerHTML='';
  for(const x of rows){
    const tr=document.createElement('tr');
    tr.innerHTML='<td><input type="checkbox" class="sel" value="'+x.id+'" style="width:auto"></td>'+
      '<td class="mono">'+x.reservationCode+'</td>'+
      '<td>'+x.startDate+' … '+x.endDate+' '+(x.time||'')+'</td>'+
      '<td>'+x.name+'<div class="small">'+x.email+' '+(x.phone||'')+'</div></td>'+
      '<td class="mono">'+x.passcode+'</td>'+
      '<td>'+x.price.toFixed(2)+'</td>'+
      '<td><button class="btn" onclick="archiveRes('+x.id+')">archive</button> '+
      '<button class="btn btn-danger" onclick="deleteRes('+x.id+')">delete</button></td>';
    tb.appendChild(tr);
  }
}
async function archiveRes(id){await fetch('/admin/reservations/'+id+'/archive',{method:'POST',headers:hdrs()});loadReservations()}
async function deleteRes(id){await fetch('/admin/reservations/'+id,{method:'DELETE',headers:hdrs()});loadReservations()}
async function bulkDeleteSelected(){
  const ids=[...document.querySelectorAll('.sel:checked')].map(e=>parseInt(e.value));
  if(!ids.length)return;
  await fetch('/admin/reservations/bulk',{method:'DELETE',headers:Object.assign({'Content-Type':'application/json'},hdrs()),body:JSON.stringify({ids})});
  loadReservations();
}`))
}
